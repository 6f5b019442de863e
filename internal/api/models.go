package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service"
)

// Common request/response structures

// SignupRequest defines the payload for the user signup endpoint.
// Password is mandatory unless an external identity id is supplied.
type SignupRequest struct {
	Email      string `json:"email"      validate:"required,email"`
	Password   string `json:"password"   validate:"required_without=ExternalID,omitempty,min=8,max=72"`
	FirstName  string `json:"firstname"  validate:"required"`
	LastName   string `json:"lastname"   validate:"required"`
	ExternalID string `json:"externalId"`
}

// LoginRequest defines the payload for the user login endpoint.
// Password carries no required tag: a missing password is an authentication
// failure (401), not a malformed request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

// GoogleAuthRequest defines the payload for the Google sign-in endpoint.
type GoogleAuthRequest struct {
	AccessToken string `json:"accessToken" validate:"required"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// AuthData is the payload of successful authentication responses.
type AuthData struct {
	ID           uuid.UUID `json:"id"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	ExpiresAt    string    `json:"expiresAt,omitempty"`
}

// TaskRequest defines the payload for task creation and edits.
// Title and description are required together; partial edits are not
// supported.
type TaskRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required"`
}

// StatusUpdateRequest defines the payload for task status changes.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=CREATED INPROGRESS COMPLETED"`
}

// TaskResponse represents a single task in API responses.
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskGroupsResponse represents tasks partitioned by status.
type TaskGroupsResponse struct {
	Created    []TaskResponse `json:"created"`
	InProgress []TaskResponse `json:"inprogress"`
	Completed  []TaskResponse `json:"completed"`
}

// taskToResponse converts a domain task to its API representation.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// tasksToResponses converts a slice of domain tasks.
func tasksToResponses(tasks []*domain.Task) []TaskResponse {
	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, taskToResponse(task))
	}
	return responses
}

// groupsToResponse converts grouped domain tasks to the API shape.
func groupsToResponse(groups *service.TaskGroups) TaskGroupsResponse {
	return TaskGroupsResponse{
		Created:    tasksToResponses(groups.Created),
		InProgress: tasksToResponses(groups.InProgress),
		Completed:  tasksToResponses(groups.Completed),
	}
}
