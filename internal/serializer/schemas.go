package serializer

import (
	"encoding/json"
	"strconv"
	"time"

	"bilemo-api/internal/model"
)

const v1 = "1.0"

func PhonePath(id int) string { return "/api/phones/" + strconv.Itoa(id) }
func UserPath(id int) string  { return "/api/users/" + strconv.Itoa(id) }

func isAdmin(ctx Context) bool { return ctx.IsGranted(model.RoleAdmin) }

var Users = Schema[*model.User]{
	Fields: []Field[*model.User]{
		{Name: "id", Groups: []string{GroupUsers, GroupPhones}, Since: v1,
			Value: func(u *model.User, _ Context) (any, error) { return u.ID, nil }},
		{Name: "email", Groups: []string{GroupUsers, GroupPhones}, Since: v1,
			Value: func(u *model.User, _ Context) (any, error) { return u.Email, nil }},
		{Name: "roles", Groups: []string{GroupUsers}, Since: v1,
			Value: func(u *model.User, _ Context) (any, error) {
				if u.Roles == nil {
					return []string{}, nil
				}
				return u.Roles, nil
			}},
		{Name: "company", Groups: []string{GroupUsers, GroupPhones}, Since: v1,
			Value: func(u *model.User, _ Context) (any, error) { return u.Company, nil }},
		{Name: "created_at", Groups: []string{GroupUsers}, Since: v1,
			Value: func(u *model.User, _ Context) (any, error) { return u.CreatedAt.UTC().Format(time.RFC3339), nil }},
	},
}

var Phones = Schema[*model.Phone]{
	Fields: []Field[*model.Phone]{
		{Name: "id", Groups: []string{GroupPhones}, Since: v1,
			Value: func(p *model.Phone, _ Context) (any, error) { return p.ID, nil }},
		{Name: "name", Groups: []string{GroupPhones}, Since: v1,
			Value: func(p *model.Phone, _ Context) (any, error) { return p.Name, nil }},
		{Name: "description", Groups: []string{GroupPhones}, Since: v1,
			Value: func(p *model.Phone, _ Context) (any, error) { return p.Description, nil }},
		{Name: "price", Groups: []string{GroupPhones}, Since: v1,
			Value: func(p *model.Phone, _ Context) (any, error) { return p.Price, nil }},
		{Name: "author", Groups: []string{GroupPhones}, Since: v1,
			Value: func(p *model.Phone, ctx Context) (any, error) {
				if p.Author == nil {
					return nil, nil
				}
				raw, err := Users.Marshal(p.Author, ctx)
				return json.RawMessage(raw), err
			}},
		{Name: "created_at", Groups: []string{GroupPhones}, Since: v1,
			Value: func(p *model.Phone, _ Context) (any, error) { return p.CreatedAt.UTC().Format(time.RFC3339), nil }},
	},
	Links: []Link[*model.Phone]{
		{Rel: "self", Groups: []string{GroupPhones},
			Href: func(p *model.Phone) string { return PhonePath(p.ID) }},
		{Rel: "update", Groups: []string{GroupPhones}, Allow: isAdmin,
			Href: func(p *model.Phone) string { return PhonePath(p.ID) }},
		{Rel: "delete", Groups: []string{GroupPhones}, Allow: isAdmin,
			Href: func(p *model.Phone) string { return PhonePath(p.ID) }},
	},
}

// PhoneList converts rows to the pointer form the schema expects.
func PhoneList(phones []model.Phone) []*model.Phone {
	out := make([]*model.Phone, len(phones))
	for i := range phones {
		out[i] = &phones[i]
	}
	return out
}

func UserList(users []model.User) []*model.User {
	out := make([]*model.User, len(users))
	for i := range users {
		out[i] = &users[i]
	}
	return out
}
