package auth

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

var Roles = []string{RoleEmployee, RoleManager, RoleAdmin}

func ValidRole(role string) bool {
	for _, candidate := range Roles {
		if role == candidate {
			return true
		}
	}
	return false
}

// FeatureArea is a navigable part of the product. An area with no role set is
// visible to every authenticated role; a declared set is enforced by membership.
type FeatureArea struct {
	Key   string   `json:"key"`
	Label string   `json:"label"`
	Roles []string `json:"roles,omitempty"`
}

var FeatureAreas = []FeatureArea{
	{Key: "dashboard", Label: "Dashboard"},
	{Key: "development", Label: "Development Plan"},
	{Key: "survey", Label: "Climate Survey"},
	{Key: "meetings", Label: "1:1 Agenda"},
	{Key: "profile", Label: "My Profile"},
	{Key: "team", Label: "My Team", Roles: []string{RoleManager, RoleAdmin}},
	{Key: "reviews", Label: "Reviews", Roles: []string{RoleManager, RoleAdmin}},
	{Key: "culture", Label: "Culture"},
}

func (a FeatureArea) VisibleTo(role string) bool {
	if len(a.Roles) == 0 {
		return true
	}
	for _, allowed := range a.Roles {
		if role == allowed {
			return true
		}
	}
	return false
}

// VisibleAreas is evaluated from the live role on every call, never cached.
func VisibleAreas(role string) []FeatureArea {
	out := make([]FeatureArea, 0, len(FeatureAreas))
	for _, area := range FeatureAreas {
		if area.VisibleTo(role) {
			out = append(out, area)
		}
	}
	return out
}
