package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunRejectsMissingJWTSecret(t *testing.T) {
	t.Setenv("DUEL_JWT_SECRET", "")

	assert.Equal(t, 1, run())
}

func TestRunRejectsUnknownStorage(t *testing.T) {
	t.Setenv("DUEL_JWT_SECRET", "s3cret")
	t.Setenv("DUEL_STORAGE", "etcd")

	assert.Equal(t, 1, run())
}
