package observer

import (
	"fmt"
)

// DeploymentTimeoutError means the stream did not fully deploy before the deadline.
type DeploymentTimeoutError struct {
	StreamName string
}

func (DeploymentTimeoutError) ErrorName() string {
	return "deploymentTimeout"
}

func (e DeploymentTimeoutError) Error() string {
	return fmt.Sprintf(`deployment of stream "%s" timed out`, e.StreamName)
}

// UndeploymentTimeoutError means the stream did not fully undeploy before the deadline.
type UndeploymentTimeoutError struct {
	StreamName string
}

func (UndeploymentTimeoutError) ErrorName() string {
	return "undeploymentTimeout"
}

func (e UndeploymentTimeoutError) Error() string {
	return fmt.Sprintf(`undeployment of stream "%s" timed out`, e.StreamName)
}

// DeploymentCheckError wraps an unexpected namespace error during a deployment wait.
type DeploymentCheckError struct {
	StreamName string
	err        error
}

func (DeploymentCheckError) ErrorName() string {
	return "deploymentCheck"
}

func (e DeploymentCheckError) Error() string {
	return fmt.Sprintf(`failed while waiting for deployment of stream "%s": %s`, e.StreamName, e.err)
}

func (e DeploymentCheckError) Unwrap() error {
	return e.err
}

// UndeploymentCheckError wraps an unexpected namespace error during an undeployment wait.
type UndeploymentCheckError struct {
	StreamName string
	err        error
}

func (UndeploymentCheckError) ErrorName() string {
	return "undeploymentCheck"
}

func (e UndeploymentCheckError) Error() string {
	return fmt.Sprintf(`failed while waiting for undeployment of stream "%s": %s`, e.StreamName, e.err)
}

func (e UndeploymentCheckError) Unwrap() error {
	return e.err
}
