package processor

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	OperationStatus int

	// OperationResult is the sole contract between the processing core
	// and whatever presentation shell sits on top of it. It is created
	// once per operation and never mutated; failures are carried as a
	// Trouble rather than a raw error so the shell can message on the
	// failure kind alone.
	OperationResult struct {
		ID         uuid.UUID
		SourcePath string
		OutputPath string
		Status     OperationStatus
		Trouble    *Trouble
	}
)

const (
	SUCCESS OperationStatus = iota
	FAILURE
)

func successResult(id uuid.UUID, sourcePath string, outputPath string) OperationResult {
	return OperationResult{
		ID:         id,
		SourcePath: sourcePath,
		OutputPath: outputPath,
		Status:     SUCCESS,
	}
}

func failureResult(id uuid.UUID, sourcePath string, err error) OperationResult {
	return OperationResult{
		ID:         id,
		SourcePath: sourcePath,
		Status:     FAILURE,
		Trouble:    newTrouble(err),
	}
}

func (result *OperationResult) Successful() bool {
	return result.Status == SUCCESS
}

// Message renders a one line human readable summary of the result,
// suitable for a status label or terminal output.
func (result *OperationResult) Message() string {
	if result.Successful() {
		return fmt.Sprintf("cleaned copy saved to %s", result.OutputPath)
	}

	return fmt.Sprintf("%s: %s", result.Trouble.Kind(), result.Trouble.Error())
}

func (result *OperationResult) String() string {
	return fmt.Sprintf("Operation{ID=%s Source=%s Status=%s}", result.ID, result.SourcePath, result.Status)
}

func (s OperationStatus) String() string {
	switch s {
	case SUCCESS:
		return fmt.Sprintf("SUCCESS[%d]", s)
	case FAILURE:
		return fmt.Sprintf("FAILURE[%d]", s)
	}

	return fmt.Sprintf("UNKNOWN[%d]", s)
}
