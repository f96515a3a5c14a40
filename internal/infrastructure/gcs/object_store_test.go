package gcs

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectStore_PutRequiresClientAndBucket(t *testing.T) {
	var nilStore *ObjectStore
	_, err := nilStore.Put(context.Background(), "resumes/a/b.pdf", "application/pdf", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = NewObjectStore(nil, "bucket").Put(context.Background(), "resumes/a/b.pdf", "application/pdf", strings.NewReader("x"))
	assert.Error(t, err)
}
