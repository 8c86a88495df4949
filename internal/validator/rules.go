package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cast"
)

// フィールドごとの検証ルール。Rulesは "required|string|max:50" 形式。
// 対応ルール: required / nullable / string / email / numeric / min:n / max:n
type Ruleset struct {
	Field string
	Rules string
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// 宣言順にフィールドを検証する。
// 1フィールドにつき最初に失敗したルールで打ち切ってメッセージを返す。
// 全部通れば空スライス。
func Validate(data map[string]interface{}, rules []Ruleset) []string {
	var errs []string

	for _, rs := range rules {
		value, present := data[rs.Field]

		for _, raw := range strings.Split(rs.Rules, "|") {
			name := raw
			param := ""
			if i := strings.Index(raw, ":"); i >= 0 {
				name = raw[:i]
				param = raw[i+1:]
			}

			// nullableで値が無いなら残りのルールはスキップ
			if name == "nullable" {
				if !present || value == nil || value == "" {
					break
				}
				continue
			}

			if !checkRule(value, present, name, param) {
				errs = append(errs, message(rs.Field, name, param))
				break
			}
		}
	}

	return errs
}

func checkRule(value interface{}, present bool, rule string, param string) bool {
	switch rule {
	case "required":
		if !present || value == nil {
			return false
		}
		if s, ok := value.(string); ok {
			return strings.TrimSpace(s) != ""
		}
		return true
	case "string":
		if value == nil {
			return true
		}
		_, ok := value.(string)
		return ok
	case "email":
		s, ok := value.(string)
		return ok && emailRe.MatchString(s)
	case "numeric":
		if value == nil {
			return false
		}
		switch value.(type) {
		case float64, int, int64:
			return true
		case string:
			_, err := cast.ToFloat64E(value)
			return err == nil
		}
		return false
	case "min":
		return len(cast.ToString(value)) >= cast.ToInt(param)
	case "max":
		return len(cast.ToString(value)) <= cast.ToInt(param)
	default:
		return true
	}
}

func message(field string, rule string, param string) string {
	switch rule {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "string":
		return fmt.Sprintf("%s must be a string", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "numeric":
		return fmt.Sprintf("%s must be numeric", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must not exceed %s characters", field, param)
	default:
		return fmt.Sprintf("%s validation failed", field)
	}
}
