package common

// Storage keys owned by the profile manager. Nothing else may read or
// write them directly.
const (
	ProfileKey      = "profile"
	ProfileImageKey = "profile_image"
)

// DeviceKeySize is the length in bytes of the locally stored device key.
const DeviceKeySize = 32
