package utils

import "github.com/shirou/gopsutil/cpu"

func CheckCPUUsage(maxCPUUsage float64) (bool, float64) {
	usage, err := CPUPercent()
	if err != nil {
		return false, 0
	}
	return usage <= maxCPUUsage, usage
}

// CPUPercent samples overall host CPU usage since the previous call.
func CPUPercent() (float64, error) {
	usage, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}
	if len(usage) == 0 {
		return 0, nil
	}
	return usage[0], nil
}
