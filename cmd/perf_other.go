//go:build !linux

package cmd

import "errors"

func cpuCycles(fn func() error) (uint64, error) {
	return 0, errors.New("hardware cycle counters are only available on linux")
}
