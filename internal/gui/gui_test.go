//go:build !raylib

package gui

import (
	"errors"
	"testing"

	"github.com/san-kum/ballpit/internal/config"
)

func TestRunUnavailable(t *testing.T) {
	if err := Run(config.DefaultConfig(), "classic"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}
