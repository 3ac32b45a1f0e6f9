package planner

// GeolocationCause classifies browser geolocation failures so the user
// message can name the actual problem.
type GeolocationCause int

const (
	GeolocationPermissionDenied GeolocationCause = iota + 1
	GeolocationPositionUnavailable
	GeolocationTimeout
)

// GeolocationMessage maps a failure cause to its user-facing message.
func GeolocationMessage(cause GeolocationCause) string {
	switch cause {
	case GeolocationPermissionDenied:
		return "Location permission was denied. Enable location access for this site and try again."
	case GeolocationPositionUnavailable:
		return "Your position could not be determined. Check your device's location settings."
	case GeolocationTimeout:
		return "Finding your location took too long. Try again."
	default:
		return "Unable to use your current location."
	}
}
