package host

type ProcUsage struct {
	PID        int32   `json:"pid"`
	AppCpu     float64 `json:"appCpu"`     // Application CPU usage in percentage, since start
	AppMem     float64 `json:"appMem"`     // Application RSS in MB
	AppVMem    float64 `json:"appVMem"`    // Application virtual memory in MB
	Mem        float64 `json:"mem"`        // Host memory used in MB
	TotalMem   float64 `json:"totalMem"`   // Total memory in MB
	MemPercent float64 `json:"memPercent"` // Host memory usage in percentage
	At         int64   `json:"at"`
}
