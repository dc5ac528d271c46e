package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReportObjectName(t *testing.T) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	name := reportObjectName("swaps", at)
	assert.True(t, strings.HasPrefix(name, "private/reports/swaps-20240506070809-"))
	assert.True(t, strings.HasSuffix(name, ".csv"))
	assert.NotEqual(t, name, reportObjectName("swaps", at))
}
