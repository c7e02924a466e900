package minio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAbsoluteURL(t *testing.T) {
	assert.True(t, IsAbsoluteURL("https://example.com/raster.tif"))
	assert.True(t, IsAbsoluteURL("http://example.com/raster.tif"))
	assert.False(t, IsAbsoluteURL("prediction-rasters/job-12/mask.tif"))
	assert.False(t, IsAbsoluteURL(""))
}

func TestSplitObjectKey(t *testing.T) {
	bucket, object, ok := splitObjectKey("prediction-rasters/job-12/mask.tif")
	assert.True(t, ok)
	assert.Equal(t, "prediction-rasters", bucket)
	assert.Equal(t, "job-12/mask.tif", object)

	_, _, ok = splitObjectKey("no-object")
	assert.False(t, ok)

	_, _, ok = splitObjectKey("")
	assert.False(t, ok)
}

func TestResolveURL_NilStorePassesThrough(t *testing.T) {
	var store *ArtifactStore
	ref := "prediction-rasters/job-12/mask.tif"
	assert.Equal(t, ref, store.ResolveURL(context.Background(), ref))
}
