//go:build linux

package cmd

import (
	perf "github.com/hodgesds/perf-utils"
)

func cpuCycles(fn func() error) (uint64, error) {
	pv, err := perf.CPUCycles(fn)
	if err != nil {
		return 0, err
	}
	return pv.Value, nil
}
