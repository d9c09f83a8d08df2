//go:build !raylib

package gui

import "github.com/san-kum/ballpit/internal/config"

func Run(cfg *config.Config, name string) error {
	return ErrUnavailable
}
