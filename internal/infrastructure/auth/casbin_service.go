package auth

import (
	"fmt"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"
)

// DefaultModel is used when no model file is configured. Subjects are
// "role_<role>", objects are request paths (keyMatch2) and actions are
// method regexes.
const DefaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// DefaultPolicies grant admins the whole admin surface and doctors
// read/update access to appointments.
var DefaultPolicies = [][]string{
	{"role_admin", "/admin/*", "(GET|POST|PUT|DELETE)"},
	{"role_doctor", "/admin/appointments", "GET"},
	{"role_doctor", "/admin/appointments/:id", "(GET|PUT)"},
}

// Subject maps an identity role to its casbin subject.
func Subject(role string) string { return "role_" + role }

type CasbinService struct{ E *casbin.Enforcer }

// NewCasbinService builds an enforcer backed by the gorm adapter. A nil db
// yields an in-memory enforcer.
func NewCasbinService(db *gorm.DB, modelPath string) (*CasbinService, error) {
	m, err := loadModel(modelPath)
	if err != nil {
		return nil, err
	}
	if db == nil {
		e, err := casbin.NewEnforcer(m)
		if err != nil {
			return nil, err
		}
		return &CasbinService{e}, nil
	}

	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("casbin adapter: %w", err)
	}
	e, err := casbin.NewEnforcer(m, adp)
	if err != nil {
		return nil, err
	}
	if err := e.LoadPolicy(); err != nil {
		return nil, err
	}
	return &CasbinService{e}, nil
}

// SeedDefaults installs DefaultPolicies when the policy set is empty.
func (s *CasbinService) SeedDefaults() (int, error) {
	existing, err := s.E.GetPolicy()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	added := 0
	for _, p := range DefaultPolicies {
		ok, err := s.E.AddPolicy(p[0], p[1], p[2])
		if err != nil {
			return added, fmt.Errorf("seed policy %v: %w", p, err)
		}
		if ok {
			added++
		}
	}
	return added, nil
}

func loadModel(path string) (model.Model, error) {
	if path == "" {
		return model.NewModelFromString(DefaultModel)
	}
	return model.NewModelFromFile(path)
}
