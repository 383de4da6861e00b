package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Task() TaskRepository
	User() UserRepository

	Close() error
}
