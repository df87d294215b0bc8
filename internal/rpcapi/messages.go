package rpcapi

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"google.golang.org/protobuf/types/known/structpb"
)

// String returns the string field key of s, or "" when absent. Numbers are
// formatted without a trailing fraction so that {"age": 42} reads as "42".
func String(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(k.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(k.BoolValue)
	}
	return ""
}

func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// UserToValue encodes u without its password hash.
func UserToValue(u *models.User) map[string]any {
	m := map[string]any{
		"name":       u.Name,
		"email":      u.Email,
		"age":        nil,
		"sex":        optional(u.Sex),
		"race":       optional(u.Race),
		"created_at": u.CreatedAt.UTC().Format(time.RFC3339),
	}
	if u.Age != nil {
		m["age"] = float64(*u.Age)
	}
	if u.UpdatedAt != nil {
		m["updated_at"] = u.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return m
}

// UserFromStruct decodes the "user" field produced by UserToValue.
func UserFromStruct(s *structpb.Struct) (*models.User, error) {
	v, ok := s.GetFields()["user"]
	if !ok || v.GetStructValue() == nil {
		return nil, fmt.Errorf("response has no user")
	}
	us := v.GetStructValue()

	u := &models.User{Name: String(us, "name"), Email: String(us, "email")}
	if age, ok := us.GetFields()["age"]; ok {
		if _, isNum := age.GetKind().(*structpb.Value_NumberValue); isNum {
			n := int(age.GetNumberValue())
			u.Age = &n
		}
	}
	if sex := String(us, "sex"); sex != "" {
		u.Sex = &sex
	}
	if race := String(us, "race"); race != "" {
		u.Race = &race
	}

	var err error
	if u.CreatedAt, err = parseTime(us, "created_at"); err != nil {
		return nil, err
	}
	if String(us, "updated_at") != "" {
		t, err := parseTime(us, "updated_at")
		if err != nil {
			return nil, err
		}
		u.UpdatedAt = &t
	}
	return u, nil
}

func FilesToValue(files []*models.HealthFile) []any {
	out := make([]any, 0, len(files))
	for _, f := range files {
		out = append(out, map[string]any{
			"filename":          f.Filename,
			"original_filename": f.OriginalFilename,
			"uploaded_at":       f.UploadedAt.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// FilesFromStruct decodes the "files" list produced by FilesToValue.
func FilesFromStruct(s *structpb.Struct) ([]*models.HealthFile, error) {
	list := s.GetFields()["files"].GetListValue()
	out := make([]*models.HealthFile, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		fs := v.GetStructValue()
		if fs == nil {
			return nil, fmt.Errorf("malformed file entry")
		}
		at, err := parseTime(fs, "uploaded_at")
		if err != nil {
			return nil, err
		}
		out = append(out, &models.HealthFile{
			Filename:         String(fs, "filename"),
			OriginalFilename: String(fs, "original_filename"),
			UploadedAt:       at,
		})
	}
	return out, nil
}

func parseTime(s *structpb.Struct, key string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, String(s, key))
	if err != nil {
		return time.Time{}, fmt.Errorf("field %s: %w", key, err)
	}
	return t, nil
}
