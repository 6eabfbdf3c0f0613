package model

// HealthStatus represents the possible health status values
type HealthStatus string

const (
	StatusUp      HealthStatus = "UP"
	StatusDown    HealthStatus = "DOWN"
	StatusUnknown HealthStatus = "UNKNOWN"
)

// ComponentHealthStatus represents the health check structure of a application component
type ComponentHealthStatus struct {
	Status  HealthStatus      `json:"status"`
	Details map[string]string `json:"details"`
}

// HealthResponse represents the health check response of all application
type HealthResponse struct {
	Status   HealthStatus          `json:"status"`
	Database ComponentHealthStatus `json:"database"`
	Redis    ComponentHealthStatus `json:"redis"`
	Queue    ComponentHealthStatus `json:"queue"`
}

// DownComponent builds a DOWN component carrying err as its message.
func DownComponent(err error) ComponentHealthStatus {
	return ComponentHealthStatus{
		Status:  StatusDown,
		Details: map[string]string{"message": err.Error()},
	}
}

// UpComponent builds an UP component with optional extra details.
func UpComponent(details map[string]string) ComponentHealthStatus {
	merged := map[string]string{"message": string(StatusUp)}
	for key, value := range details {
		merged[key] = value
	}
	return ComponentHealthStatus{Status: StatusUp, Details: merged}
}
