package health

import "time"

// NewHealthy builds a healthy Status for a component such as
// "input-registry" or "metrics-server", ready to hand to Monitor.Update.
func NewHealthy(component, message string) Status {
	return Status{
		Component: component,
		Healthy:   true,
		Status:    "healthy",
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewUnhealthy creates a new unhealthy status
func NewUnhealthy(component, message string) Status {
	return Status{
		Component: component,
		Healthy:   false,
		Status:    "unhealthy",
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewDegraded creates a new degraded status
func NewDegraded(component, message string) Status {
	return Status{
		Component: component,
		Healthy:   false,
		Status:    "degraded",
		Message:   message,
		Timestamp: time.Now(),
	}
}

// Aggregate rolls a federate's per-component sub-statuses into one Status
// for federateName using unhealthy > degraded > healthy precedence: any
// unhealthy component fails the whole federate, any remaining degraded
// component downgrades it, and only an all-healthy component set is
// reported healthy. Monitor.AggregateHealth is the only caller; it's
// exported so a caller assembling statuses from something other than a
// Monitor (e.g. a one-shot startup check) can reuse the same rule.
func Aggregate(federateName string, subStatuses []Status) Status {
	if len(subStatuses) == 0 {
		return NewHealthy(federateName, "no components reporting yet")
	}

	hasUnhealthy := false
	hasDegraded := false

	for _, sub := range subStatuses {
		if sub.IsUnhealthy() {
			hasUnhealthy = true
		} else if sub.IsDegraded() {
			hasDegraded = true
		}
	}

	var status Status
	if hasUnhealthy {
		status = NewUnhealthy(federateName, "one or more components are unhealthy")
	} else if hasDegraded {
		status = NewDegraded(federateName, "one or more components are degraded")
	} else {
		status = NewHealthy(federateName, "all components are healthy")
	}

	status.SubStatuses = make([]Status, len(subStatuses))
	copy(status.SubStatuses, subStatuses)

	return status
}
