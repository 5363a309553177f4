package errno

// code=0   success
// code=4xx client errors
// code=5xx server errors
// code=2xxxx business errors

type Errno struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *Errno) Error() string {
	return e.Message
}

var (
	OK = &Errno{Code: 200, Message: "Success"}

	ErrInvalidParam = &Errno{Code: 400, Message: "Invalid parameter"}
	ErrUnauthorized = &Errno{Code: 401, Message: "Unauthorized"}
	ErrNotFound     = &Errno{Code: 404, Message: "Not found"}

	ErrInternalServer = &Errno{Code: 500, Message: "Internal server error"}
	ErrDatabase       = &Errno{Code: 501, Message: "Database error"}
	ErrUnknown        = &Errno{Code: 510, Message: "Unknown error"}

	// pipeline business codes
	ErrAssetIDRequired    = &Errno{Code: 21001, Message: "Asset id is required"}
	ErrOwnerIDRequired    = &Errno{Code: 21002, Message: "Owner id is required"}
	ErrSourceKeyRequired  = &Errno{Code: 21003, Message: "Source key is required"}
	ErrJobNotFound        = &Errno{Code: 21004, Message: "Processing job not found"}
	ErrQueueFull          = &Errno{Code: 21005, Message: "Processing queue is full"}
	ErrContentUnavailable = &Errno{Code: 21006, Message: "Content not available"}
	ErrInvalidQuality     = &Errno{Code: 21007, Message: "Invalid quality tier"}
	ErrInvalidFormat      = &Errno{Code: 21008, Message: "Invalid output format"}
)
