package osdlogin

import "github.com/RoCS2024/osdlogin/session"

// Area tags a destination area of the application.
type Area string

const (
	// AreaGuest is the guest area entry view.
	AreaGuest Area = "guest"
	// AreaEmployee is the employee area entry view.
	AreaEmployee Area = "employee"
	// AreaStudent is the student area entry view.
	AreaStudent Area = "student"
)

// Destination names the area to present and the parameter bag for its
// entry view (the role-specific identifier).
type Destination struct {
	Area   Area
	Params map[string]string
}

// Navigator is the presentation-system boundary. The flow calls Navigate
// exactly once per successful login; implementations own stack mechanics.
type Navigator interface {
	Navigate(dest Destination)
}

var destinationTable = map[Role]struct {
	area  Area
	param string
}{
	RoleGuest:    {AreaGuest, session.KeyGuestID},
	RoleEmployee: {AreaEmployee, session.KeyEmployeeNumber},
	RoleStudent:  {AreaStudent, session.KeyStudentNumber},
}

// Route is a pure table lookup from role to destination, carrying the
// resolved identifier under the role's parameter name.
func Route(role Role, identifier string) Destination {
	entry, ok := destinationTable[role]
	if !ok {
		entry = destinationTable[RoleStudent]
	}
	return Destination{
		Area:   entry.area,
		Params: map[string]string{entry.param: identifier},
	}
}

func identifierKeyFor(role Role) string {
	entry, ok := destinationTable[role]
	if !ok {
		return session.KeyStudentNumber
	}
	return entry.param
}
