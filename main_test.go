package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poimap-scraper/models"
)

type fakeSink struct {
	written  []*models.CleanPlace
	writeErr error
	closed   bool
}

func (s *fakeSink) Write(places []*models.CleanPlace) error {
	s.written = places
	return s.writeErr
}

func (s *fakeSink) Close() error {
	s.closed = true
	return nil
}

func TestStoreCleanWritesAndCloses(t *testing.T) {
	sink := &fakeSink{}
	clean := []*models.CleanPlace{{Name: "A"}, {Name: "B"}}

	require.NoError(t, storeClean(sink, clean))
	assert.Len(t, sink.written, 2)
	assert.True(t, sink.closed)
}

func TestStoreCleanClosesOnWriteError(t *testing.T) {
	sink := &fakeSink{writeErr: fmt.Errorf("insert failed")}

	assert.Error(t, storeClean(sink, nil))
	assert.True(t, sink.closed)
}
