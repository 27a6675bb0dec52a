package workflow

import "strings"

// Condition is a boolean GitHub Actions expression. Conditions render to
// the opaque strings carried in job and step If fields; the emitters never
// interpret them.
type Condition interface {
	Render() string
}

type rawExpr string

func (e rawExpr) Render() string { return string(e) }

// Expr wraps a literal expression fragment.
func Expr(expression string) Condition { return rawExpr(expression) }

// Eq compares two expression operands for equality.
func Eq(left, right string) Condition { return rawExpr(left + " == " + right) }

// Neq compares two expression operands for inequality.
func Neq(left, right string) Condition { return rawExpr(left + " != " + right) }

// StartsWith tests whether the value of expr starts with prefix.
func StartsWith(expr, prefix string) Condition {
	return rawExpr("startsWith(" + expr + ", " + prefix + ")")
}

type andExpr []Condition

// And is true when every term is true. Or terms are parenthesized since
// && binds tighter than || in the expression language.
func And(terms ...Condition) Condition { return andExpr(terms) }

func (a andExpr) Render() string {
	parts := make([]string, 0, len(a))
	for _, term := range a {
		rendered := term.Render()
		if _, or := term.(orExpr); or {
			rendered = "(" + rendered + ")"
		}
		parts = append(parts, rendered)
	}
	return strings.Join(parts, " && ")
}

type orExpr []Condition

// Or is true when at least one term is true.
func Or(terms ...Condition) Condition { return orExpr(terms) }

func (o orExpr) Render() string {
	parts := make([]string, 0, len(o))
	for _, term := range o {
		parts = append(parts, term.Render())
	}
	return strings.Join(parts, " || ")
}

type notExpr struct{ term Condition }

// Not negates term.
func Not(term Condition) Condition { return notExpr{term} }

func (n notExpr) Render() string { return "!(" + n.term.Render() + ")" }

// RefBranch is true when the workflow runs against the given branch.
func RefBranch(branch string) Condition {
	return Eq("github.ref", "'refs/heads/"+branch+"'")
}

// RefTagPrefix is true when the workflow runs against a tag starting with
// the given prefix.
func RefTagPrefix(prefix string) Condition {
	return StartsWith("github.ref", "'refs/tags/"+prefix+"'")
}

// NotPullRequest is true for every trigger except pull requests.
func NotPullRequest() Condition {
	return Neq("github.event_name", "'pull_request'")
}
