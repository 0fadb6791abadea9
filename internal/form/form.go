// Package form 提供按实体定义的表单校验规则。
// 校验是纯函数：输入提交的表单值，输出字段级错误列表，不触碰存储。
package form

import (
	"fmt"
	"net/url"
	"strings"
)

// Constraint 校验单个字段值，返回错误信息；空串表示通过。
type Constraint func(value string) string

// Required 要求字段去掉首尾空白后非空。
func Required() Constraint {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return "this field is required"
		}
		return ""
	}
}

// MaxLength 限制字段的最大长度 (按 rune 计)。
func MaxLength(n int) Constraint {
	return func(value string) string {
		if len([]rune(value)) > n {
			return fmt.Sprintf("must be at most %d characters", n)
		}
		return ""
	}
}

// Field 是实体表单中的一个字段及其约束。
type Field struct {
	Name        string
	Constraints []Constraint
}

// Schema 是某个实体的完整表单定义。
type Schema struct {
	Fields []Field
}

// Errors 按字段名聚合校验错误。空 map 表示校验通过。
type Errors map[string][]string

// Has 报告是否存在任何错误。
func (e Errors) Has() bool {
	return len(e) > 0
}

// Validate 对提交的表单值逐字段应用约束。
func (s Schema) Validate(values url.Values) Errors {
	errs := Errors{}
	for _, f := range s.Fields {
		value := values.Get(f.Name)
		for _, check := range f.Constraints {
			if msg := check(value); msg != "" {
				errs[f.Name] = append(errs[f.Name], msg)
			}
		}
	}
	return errs
}

// 各实体的表单定义，字段约束与数据库列保持一致。
var (
	QuestionSchema = Schema{Fields: []Field{
		{Name: "subject", Constraints: []Constraint{Required(), MaxLength(200)}},
		{Name: "content", Constraints: []Constraint{Required()}},
	}}
	AnswerSchema = Schema{Fields: []Field{
		{Name: "content", Constraints: []Constraint{Required()}},
	}}
	CommentSchema = Schema{Fields: []Field{
		{Name: "content", Constraints: []Constraint{Required()}},
	}}
)
