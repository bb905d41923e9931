// Package profiling writes CPU and heap profiles of a picker session.
package profiling

import (
	"os"
	"runtime/pprof"
	"sync"
	"time"

	"github.com/filetug/filepick/pkg/logging"
	"go.uber.org/zap"
)

var (
	osCreate              = os.Create
	pprofStartCPUProfile  = pprof.StartCPUProfile
	pprofStopCPUProfile   = pprof.StopCPUProfile
	pprofWriteHeapProfile = pprof.WriteHeapProfile
)

var memProfilingInterval = 10 * time.Second

// DoCPUProfiling starts CPU profiling into file. The returned func stops it.
func DoCPUProfiling(file string) func() {
	f, err := osCreate(file)
	if err != nil {
		logging.L().Error("could not create CPU profile", zap.String("file", file), zap.Error(err))
		return func() {}
	}
	if err = pprofStartCPUProfile(f); err != nil {
		logging.L().Error("could not start CPU profile", zap.Error(err))
		_ = f.Close()
		return func() {}
	}
	return func() {
		pprofStopCPUProfile()
		if err := f.Close(); err != nil {
			logging.L().Warn("failed to close CPU profile", zap.Error(err))
		}
	}
}

// DoMemProfiling rewrites a heap profile into file every memProfilingInterval.
// The returned func writes a final profile and stops the periodic writes.
func DoMemProfiling(file string) func() {
	var mu sync.Mutex
	write := func() {
		mu.Lock()
		defer mu.Unlock()
		f, err := osCreate(file)
		if err != nil {
			logging.L().Error("could not create memory profile", zap.String("file", file), zap.Error(err))
			return
		}
		defer func() {
			_ = f.Close()
		}()
		if err = pprofWriteHeapProfile(f); err != nil {
			logging.L().Error("could not write memory profile", zap.Error(err))
		}
	}

	stop := make(chan struct{})
	ticker := time.NewTicker(memProfilingInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				write()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stop) })
		write()
	}
}
