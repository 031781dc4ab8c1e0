package models

type APIServer interface {
	// Start blocks serving HTTP until Shutdown is called.
	Start()
	Shutdown() error
}
