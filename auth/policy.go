package auth

import (
	"Cywala/role"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const policyModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

/*
* Build the enforcer from the in-code model
* Load every role privilege as a policy line
 */
func NewEnforcer(privileges []role.Privilege) (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(policyModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	for _, p := range privileges {
		if _, err := enforcer.AddPolicy(p.Role, p.Path, p.Action); err != nil {
			return nil, err
		}
	}
	return enforcer, nil
}
