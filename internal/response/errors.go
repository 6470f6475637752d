package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionRequired    ErrCode = "SESSION_REQUIRED"
	ErrSessionExpired     ErrCode = "SESSION_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden        ErrCode = "FORBIDDEN"
	ErrTeacherOnly      ErrCode = "TEACHER_ACCESS_ONLY"
	ErrAdminOnly        ErrCode = "ADMIN_ACCESS_ONLY"
	ErrNotProgramOwner  ErrCode = "NOT_PROGRAM_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Content-specific ──────────────────────────────────────────────
	ErrScenarioNotActive ErrCode = "SCENARIO_NOT_ACTIVE"
	ErrModeImmutable     ErrCode = "MODE_IMMUTABLE"
	ErrTaskCompleted     ErrCode = "TASK_COMPLETED"
	ErrProgramCompleted  ErrCode = "PROGRAM_COMPLETED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server / Storage ──────────────────────────────────────────────
	ErrStorageUnavailable ErrCode = "STORAGE_UNAVAILABLE"
	ErrInternal           ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrSessionRequired:
		return "A valid session token is required."
	case ErrSessionExpired:
		return "Your session has expired. Please sign in again."
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrTeacherOnly:
		return "This resource is restricted to teachers."
	case ErrAdminOnly:
		return "This resource is restricted to administrators."
	case ErrNotProgramOwner:
		return "You are not the owner of this program."
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."
	case ErrScenarioNotActive:
		return "This scenario is not active."
	case ErrModeImmutable:
		return "Scenario mode cannot be changed after creation."
	case ErrTaskCompleted:
		return "This task is completed and can no longer be modified."
	case ErrProgramCompleted:
		return "This program is already completed."
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."
	case ErrStorageUnavailable:
		return "The storage backend is currently unavailable."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
