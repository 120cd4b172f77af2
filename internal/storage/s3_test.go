package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocation(t *testing.T) {
	assert.Equal(t, "s3://reports/analytics/2024/01/02/a.json", Location("reports", "analytics/2024/01/02/a.json"))
	assert.Equal(t, "s3://reports/a.json", Location("reports", "/a.json"))
}
