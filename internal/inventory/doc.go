// Package inventory is the source of truth for capture agent identity
// and role assignment.
//
// The model is a constrained relational graph: Location, Vendor,
// MhCluster, Ca, and Role, plus per-entity configuration records used
// by device configuration generation. Constraint violations surface as
// package sentinel errors (see errors.go) and always abort the
// mutating operation with no partial write: checks and writes share
// one transaction.
//
// Ownership rules:
//   - Location and MhCluster own their Roles; deleting either cascades
//     through the roles to the capture agents bound to them.
//   - A Ca has at most one Role ever, and the binding is immutable.
//   - Vendor records are referenced, never owned, and cannot be deleted.
package inventory
