package domain

// JobState is the lifecycle state of a queued batch job
type JobState string

const (
	JobPending JobState = "PENDING"
	JobStarted JobState = "STARTED"
	JobSuccess JobState = "SUCCESS"
	JobFailure JobState = "FAILURE"
)

// Job result states
const (
	ResultOK   = "ok"
	ResultFail = "fail"
)

// JobResult is the payload reported by every batch job
type JobResult struct {
	State string `json:"state"`
	File  string `json:"file,omitempty"` // produced spreadsheet, asynchronous resolver only
}

// JobOK returns a successful result
func JobOK() JobResult { return JobResult{State: ResultOK} }

// JobFail returns a failed result
func JobFail() JobResult { return JobResult{State: ResultFail} }

// BatchJob is the queue's view of a submitted job
type BatchJob struct {
	ID     string     `json:"task_id"`
	State  JobState   `json:"task_status"`
	Result *JobResult `json:"task_result"`
}

// Task type names shared by the API (producer) and the worker (consumer)
const (
	TaskIngestAnalogs       = "ingest:analogs"
	TaskIngestManufacturers = "ingest:manufacturers"
	TaskResolveAnalogs      = "resolve:analogs"
	TaskSweepStorage        = "storage:sweep"
)

// IngestAnalogsPayload is the payload of TaskIngestAnalogs
type IngestAnalogsPayload struct {
	FilePath string         `json:"file_path"`
	Columns  *AnalogColumns `json:"columns,omitempty"`
}

// IngestManufacturersPayload is the payload of TaskIngestManufacturers
type IngestManufacturersPayload struct {
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
}

// ResolveAnalogsPayload is the payload of TaskResolveAnalogs
type ResolveAnalogsPayload struct {
	FilePath string `json:"file_path"`
}

// AnalogColumns fixes the zero-based column offsets of an analog sheet
// instead of locating them by header name.
type AnalogColumns struct {
	Base               int `json:"base"`
	BaseManufacturer   int `json:"base_manufacturer"`
	Analog             int `json:"analog"`
	AnalogManufacturer int `json:"analog_manufacturer"`
}

// Localized spreadsheet headers
const (
	ColumnTool        = "Инструмент"
	ColumnBrand       = "Бренд"
	ColumnAnalog      = "Аналог"
	ColumnAnalogBrand = "Бренд аналога"
)
