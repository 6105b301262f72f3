package inventory

import "errors"

// Sentinel errors for inventory constraint violations.
// Callers use errors.Is to classify failures; mutating operations
// always abort with no partial write when one of these is returned.
var (
	// ErrNotFound indicates the requested entity doesn't exist.
	ErrNotFound = errors.New("inventory: entity not found")

	// ErrEmptyValue indicates a required field was empty.
	ErrEmptyValue = errors.New("inventory: empty value not allowed")

	// ErrInvalidOperation indicates an operation the model forbids,
	// such as deleting a vendor or updating a role.
	ErrInvalidOperation = errors.New("inventory: operation not allowed")

	// ErrDuplicateLocationName indicates a location with the same name exists.
	ErrDuplicateLocationName = errors.New("inventory: duplicate location name")

	// ErrDuplicateVendorNameModel indicates a vendor with the same
	// name+model composite identifier exists.
	ErrDuplicateVendorNameModel = errors.New("inventory: duplicate vendor name-model")

	// ErrDuplicateClusterName indicates a cluster with the same name exists.
	ErrDuplicateClusterName = errors.New("inventory: duplicate cluster name")

	// ErrDuplicateClusterAdminHost indicates a cluster with the same
	// admin host exists.
	ErrDuplicateClusterAdminHost = errors.New("inventory: duplicate cluster admin host")

	// ErrInvalidClusterEnv indicates a cluster environment outside
	// prod, dev, stage.
	ErrInvalidClusterEnv = errors.New("inventory: invalid cluster environment")

	// ErrInvalidRole indicates a role name outside primary, secondary,
	// experimental.
	ErrInvalidRole = errors.New("inventory: invalid role name")

	// ErrAssociation indicates a role binding conflict: the capture agent
	// already has a role, or the location already holds that role.
	ErrAssociation = errors.New("inventory: association conflict")

	// ErrMissingVendor indicates the referenced vendor is not in inventory.
	ErrMissingVendor = errors.New("inventory: vendor not in inventory")

	// ErrDuplicateCaName indicates a capture agent with the same name exists.
	ErrDuplicateCaName = errors.New("inventory: duplicate capture agent name")

	// ErrDuplicateCaAddress indicates a capture agent with the same
	// address exists.
	ErrDuplicateCaAddress = errors.New("inventory: duplicate capture agent address")

	// ErrDuplicateCaSerial indicates a capture agent with the same
	// serial number exists.
	ErrDuplicateCaSerial = errors.New("inventory: duplicate capture agent serial number")

	// ErrMissingConfigSetting indicates a device configuration document
	// cannot be built because a required setting is absent.
	ErrMissingConfigSetting = errors.New("inventory: missing config setting")
)
