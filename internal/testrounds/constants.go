package testrounds

// HTTP status code constants.
const (
	StatusOK       = 200
	StatusCreated  = 201
	StatusConflict = 409
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	// Every Nth planned round leaves one item unscored so the rejection
	// path gets exercised too.
	incompleteEveryN = 20
)
