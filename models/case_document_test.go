package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanSize(t *testing.T) {
	size := int64(1536)
	doc := &CaseDocument{FileSize: &size}
	assert.Equal(t, "1.5 KB", doc.HumanSize())

	small := int64(12)
	doc.FileSize = &small
	assert.Equal(t, "12 B", doc.HumanSize())
}
