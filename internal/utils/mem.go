package utils

import (
	"runtime"

	"github.com/charmbracelet/log"
)

const bytesOneMB = 1024 * 1024

// MemUsage is a snapshot of the Go runtime memory counters.
type MemUsage struct {
	HeapAlloc uint64
	HeapSys   uint64
	Sys       uint64
	NumGC     uint32
}

// ReadMemUsage collects garbage and samples the runtime memory counters.
func ReadMemUsage() MemUsage {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	return MemUsage{
		HeapAlloc: m.HeapAlloc,
		HeapSys:   m.HeapSys,
		Sys:       m.Sys,
		NumGC:     m.NumGC,
	}
}

// deltaMB returns after-before in MB, negative when memory was released.
func deltaMB(before, after uint64) float64 {
	return (float64(after) - float64(before)) / bytesOneMB
}

// ReportMemUsage logs the memory growth caused by action.
func ReportMemUsage(action string, before, after MemUsage) {
	log.Infof("Action: '%s' memory increase:", action)
	log.Debugf("memory before: heap=%d bytes, heapSys=%d bytes, sys=%d bytes", before.HeapAlloc, before.HeapSys, before.Sys)
	log.Debugf("memory after: heap=%d bytes, heapSys=%d bytes, sys=%d bytes", after.HeapAlloc, after.HeapSys, after.Sys)
	log.Info("memory delta",
		"heapMB", deltaMB(before.HeapAlloc, after.HeapAlloc),
		"heapSysMB", deltaMB(before.HeapSys, after.HeapSys),
		"sysMB", deltaMB(before.Sys, after.Sys),
		"gcRuns", after.NumGC-before.NumGC)
}
