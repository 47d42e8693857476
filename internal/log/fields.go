package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldPath      = "path"
	FieldMealID    = "meal_id"
	FieldMealType  = "meal_type"
	FieldCalories  = "calories_kcal"
	FieldRecords   = "records"
	FieldTarget    = "target"
	FieldDays      = "days"
	FieldWidth     = "width"
	FieldHeight    = "height"
	FieldBytes     = "bytes"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentJournal = "journal"
	ComponentReport  = "report"
	ComponentExport  = "export"
	ComponentStorage = "storage"
	ComponentSheets  = "sheets"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentImgprep = "imgprep"
)

// Operations defines standard operation names
const (
	OpLoad    = "load"
	OpSave    = "save"
	OpAdd     = "add"
	OpDelete  = "delete"
	OpList    = "list"
	OpExport  = "export"
	OpRender  = "render"
	OpSync    = "sync"
	OpProcess = "process"
)
