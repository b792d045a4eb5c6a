// Copyright 2026 The Repo Roller Authors

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package schema validates a MergedConfiguration against the built-in
// rules plus any organization-supplied custom rules. It performs
// no I/O and never suspends.
package schema

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/pvandervelde/repo-roller/internal/configmodel"
)

// Severity classifies a ValidationIssue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationIssue is one rule violation found in a MergedConfiguration.
type ValidationIssue struct {
	Rule     string
	Path     string
	Message  string
	Severity Severity
}

// ValidationResult is the outcome of a Validate call.
type ValidationResult struct {
	Issues []ValidationIssue
}

// Valid reports whether no error-severity issues were found. Warnings do
// not block repository creation.
func (r ValidationResult) Valid() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return false
		}
	}
	return true
}

// CustomRule is an organization-supplied validation rule. FieldPattern
// follows glob syntax over the merged configuration's dotted leaf paths
// ("webhooks.*.url" and similar), compiled once and cached. Check
// receives each matching leaf's path and resolved value and reports
// whether it passes, with a message for the issue when it does not.
type CustomRule struct {
	Name         string
	Description  string
	FieldPattern string
	Check        func(path string, value any) (bool, string)
}

var labelColorPattern = regexp.MustCompile(`^[0-9a-f]{6}$`)

// Validator runs the built-in rules plus any registered CustomRules.
type Validator struct {
	strictSecurity bool
	customRules    []CustomRule
	gc             globCache
}

// NewValidator constructs a Validator. strictSecurity mirrors the document
// flag: under strict security a non-https webhook is an error rather than
// a warning, and a disabled branch-protection policy is an error; without
// strict security a disabled branch-protection policy is not reported.
func NewValidator(strictSecurity bool) *Validator {
	return &Validator{strictSecurity: strictSecurity, gc: globCache{}}
}

// RegisterCustomRule adds an organization-supplied rule to the pluggable
// registry.
func (v *Validator) RegisterCustomRule(r CustomRule) {
	v.customRules = append(v.customRules, r)
}

// Validate runs every built-in and custom rule against cfg.
func (v *Validator) Validate(cfg *configmodel.MergedConfiguration) ValidationResult {
	var issues []ValidationIssue

	issues = append(issues, v.checkWebhooks(cfg)...)
	issues = append(issues, v.checkLabels(cfg)...)
	issues = append(issues, v.checkEnvironments(cfg)...)
	issues = append(issues, v.checkBranchProtection(cfg)...)
	issues = append(issues, v.runCustomRules(cfg)...)

	return ValidationResult{Issues: issues}
}

func (v *Validator) checkWebhooks(cfg *configmodel.MergedConfiguration) []ValidationIssue {
	var issues []ValidationIssue
	for _, w := range cfg.Webhooks {
		path := "webhooks." + w.URL
		u, err := url.Parse(w.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			issues = append(issues, ValidationIssue{
				Rule: "webhook_url_wellformed", Path: path,
				Message: fmt.Sprintf("webhook url %q is not well-formed", w.URL), Severity: SeverityError,
			})
			continue
		}
		if u.Scheme != "https" {
			sev := SeverityWarning
			if v.strictSecurity {
				sev = SeverityError
			}
			issues = append(issues, ValidationIssue{
				Rule: "webhook_strict_https", Path: path,
				Message: fmt.Sprintf("webhook url %q does not use https", w.URL), Severity: sev,
			})
		}
	}
	return issues
}

func (v *Validator) checkLabels(cfg *configmodel.MergedConfiguration) []ValidationIssue {
	var issues []ValidationIssue
	for name, l := range cfg.Labels {
		if !labelColorPattern.MatchString(strings.ToLower(l.Color)) {
			issues = append(issues, ValidationIssue{
				Rule: "label_color_format", Path: "labels." + name,
				Message: fmt.Sprintf("label %q has invalid color %q, want 6 hex digits", name, l.Color), Severity: SeverityError,
			})
		}
	}
	return issues
}

func (v *Validator) checkEnvironments(cfg *configmodel.MergedConfiguration) []ValidationIssue {
	var issues []ValidationIssue
	seen := map[string]bool{}
	for _, e := range cfg.Environments {
		path := "environments." + e.Name
		if e.Name == "" {
			issues = append(issues, ValidationIssue{
				Rule: "environment_name_required", Path: path,
				Message: "environment name must not be empty", Severity: SeverityError,
			})
			continue
		}
		if seen[e.Name] {
			issues = append(issues, ValidationIssue{
				Rule: "environment_name_unique", Path: path,
				Message: fmt.Sprintf("environment %q is defined more than once", e.Name), Severity: SeverityError,
			})
		}
		seen[e.Name] = true
	}
	return issues
}

func (v *Validator) checkBranchProtection(cfg *configmodel.MergedConfiguration) []ValidationIssue {
	if cfg.BranchProtection.Enabled != nil && !*cfg.BranchProtection.Enabled && v.strictSecurity {
		return []ValidationIssue{{
			Rule: "branch_protection_required", Path: "branch_protection.enabled",
			Message:  "branch protection is disabled under strict security policy",
			Severity: SeverityError,
		}}
	}
	return nil
}

func (v *Validator) runCustomRules(cfg *configmodel.MergedConfiguration) []ValidationIssue {
	if len(v.customRules) == 0 {
		return nil
	}
	leaves := configLeaves(cfg)
	var issues []ValidationIssue
	for _, rule := range v.customRules {
		g, err := v.gc.compileGlob(rule.FieldPattern)
		if err != nil {
			issues = append(issues, ValidationIssue{
				Rule: rule.Name, Path: rule.FieldPattern,
				Message: fmt.Sprintf("invalid field pattern: %v", err), Severity: SeverityError,
			})
			continue
		}
		for path, value := range leaves {
			if !g.Match(path) {
				continue
			}
			ok, msg := rule.Check(path, value)
			if !ok {
				issues = append(issues, ValidationIssue{
					Rule: rule.Name, Path: path, Message: msg, Severity: SeverityError,
				})
			}
		}
	}
	return issues
}
