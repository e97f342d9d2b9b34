package errors

import "fmt"

// NewValidationError creates a validation error for a controller
func NewValidationError(controller, subject, message string, loc SourceLocation) *ValidationError {
	return &ValidationError{
		BaseError:  New(ValidationErrorCode, fmt.Sprintf("controller %s: %s", controller, message)).WithLocation(loc),
		Controller: controller,
		Subject:    subject,
	}
}

// WrapValidationError wraps a cause found while validating a controller
func WrapValidationError(controller string, loc SourceLocation, cause error) *ValidationError {
	return &ValidationError{
		BaseError:  Wrap(ValidationErrorCode, fmt.Sprintf("controller %s is invalid", controller), cause).WithLocation(loc),
		Controller: controller,
	}
}

// WrapExtractionError wraps a failure to read declarations
func WrapExtractionError(item string, cause error) *BaseError {
	return Wrap(ExtractionErrorCode, fmt.Sprintf("failed to extract %s", item), cause)
}

// WrapEmitError wraps a failure to render or write an artifact
func WrapEmitError(stage, artifact string, cause error) *EmissionError {
	return &EmissionError{
		BaseError: Wrap(EmissionErrorCode, fmt.Sprintf("failed to %s %s", stage, artifact), cause).
			WithContext("stage", stage),
		Artifact: artifact,
		Stage:    stage,
	}
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigError wraps configuration-related errors
func WrapConfigError(key string, cause error) *BaseError {
	return Wrap(ConfigurationErrorCode, fmt.Sprintf("invalid configuration '%s'", key), cause).
		WithContext("key", key)
}

// ConfigError creates a configuration error without a cause
func ConfigError(key, message string) *BaseError {
	return New(ConfigurationErrorCode, fmt.Sprintf("invalid configuration '%s': %s", key, message)).
		WithContext("key", key)
}
