package role

// Role names carried in the token subject claim.
const (
	Admin  = "admin"
	Doctor = "doctor"
	User   = "user"
)

// Privilege grants a role every method matching Action on paths matching Path.
type Privilege struct {
	Role   string
	Path   string
	Action string
}

// Privileges is the static access policy loaded into the enforcer at boot.
var Privileges = []Privilege{
	{Role: Admin, Path: "/api/admin/*", Action: "(GET)|(POST)|(PUT)|(DELETE)"},
	{Role: Doctor, Path: "/api/doctor/*", Action: "(GET)|(POST)|(PUT)"},
	{Role: User, Path: "/api/user/*", Action: "(GET)|(POST)|(PUT)"},
}

func Valid(name string) bool {
	return name == Admin || name == Doctor || name == User
}
