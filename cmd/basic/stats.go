package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tklauser/go-sysconf"
)

// cpuTimes is the CPU time consumed by this process.
type cpuTimes struct {
	User   time.Duration
	System time.Duration
}

// readCPUTimes reads utime and stime from /proc/self/stat.
func readCPUTimes() (cpuTimes, error) {
	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		return cpuTimes{}, err
	}
	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return cpuTimes{}, err
	}
	return parseStat(string(contents), clktck)
}

// parseStat extracts the times from a stat line. The command name may
// contain spaces, so fields are counted from its closing parenthesis.
func parseStat(stat string, clktck int64) (cpuTimes, error) {
	if clktck <= 0 {
		return cpuTimes{}, fmt.Errorf("bad clock tick rate %d", clktck)
	}
	end := strings.LastIndexByte(stat, ')')
	if end < 0 {
		return cpuTimes{}, fmt.Errorf("malformed stat line")
	}
	// After the name: state is field 3, utime field 14, stime field 15.
	fields := strings.Fields(stat[end+1:])
	if len(fields) < 13 {
		return cpuTimes{}, fmt.Errorf("malformed stat line: %d fields", len(fields))
	}
	utime, err := strconv.ParseInt(fields[11], 10, 64)
	if err != nil {
		return cpuTimes{}, err
	}
	stime, err := strconv.ParseInt(fields[12], 10, 64)
	if err != nil {
		return cpuTimes{}, err
	}
	tick := time.Second / time.Duration(clktck)
	return cpuTimes{User: time.Duration(utime) * tick, System: time.Duration(stime) * tick}, nil
}
