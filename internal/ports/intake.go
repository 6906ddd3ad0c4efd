package ports

// Intake is a front end that feeds content into the analysis service
type Intake interface {
	// Name identifies the intake in logs
	Name() string

	// Start starts serving in the background
	Start() error

	// Stop stops serving and releases listeners
	Stop() error
}
