package repositories

import "context"

// Repository aggregates every store the service uses
type Repository interface {
	// Identity and lifecycle
	User() UserRepository
	Teacher() TeacherRepository
	Student() StudentRepository
	Admin() AdminRepository

	// School structure
	Subject() SubjectRepository
	Class() ClassRepository

	// Gradebook
	Mark() MarkRepository
	Absence() AbsenceRepository
	Notification() NotificationRepository

	// Transaction support. Sub-repositories obtained from the argument run
	// inside the transaction; returning an error rolls everything back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
