package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skillswap/internal/domain/repository"
)

const recordsCollection = "records"

type firestoreRecord struct {
	Value string `firestore:"value"`
}

type firestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(ctx context.Context, projectID, credentialsPath string) (repository.RecordStore, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %v", err)
	}

	return &firestoreStore{
		client: client,
	}, nil
}

func (s *firestoreStore) Get(ctx context.Context, key string) (string, bool, error) {
	doc, err := s.client.Collection(recordsCollection).Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	var record firestoreRecord
	if err := doc.DataTo(&record); err != nil {
		return "", false, err
	}

	return record.Value, true, nil
}

func (s *firestoreStore) Set(ctx context.Context, key, value string) error {
	_, err := s.client.Collection(recordsCollection).Doc(key).Set(ctx, firestoreRecord{Value: value})
	return err
}

func (s *firestoreStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.Collection(recordsCollection).Doc(key).Delete(ctx)
	return err
}

func (s *firestoreStore) Close() error {
	return s.client.Close()
}
