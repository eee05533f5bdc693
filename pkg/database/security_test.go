// -----------------------------------------------------------------------------
// SQL Injection Security Tests
// -----------------------------------------------------------------------------
// Bu testler, identifier'lara ve operatörlere sızdırılan injection
// denemelerinin derleme öncesi ValidationError ile kesildiğini, değerlere
// sızdırılanların ise parametre olarak bağlanıp SQL metnine ASLA
// girmediğini doğrular.
// -----------------------------------------------------------------------------

package database

import (
	"strings"
	"testing"
)

// TestSecurity_MaliciousTableName tests table name injection attempts.
func TestSecurity_MaliciousTableName(t *testing.T) {
	maliciousTables := []string{
		"users; DROP TABLE users--",
		"users' OR '1'='1",
		"users`--",
		"users/**/UNION/**/SELECT",
	}

	for _, table := range maliciousTables {
		qb := NewBuilder(nil, NewMySQLGrammar())
		qb.Table(table)

		_, _, err := qb.ToSQL()
		if err == nil {
			t.Errorf("Expected validation error for table name: %s", table)
			continue
		}
		if !IsValidation(err) {
			t.Errorf("Expected ValidationError for %s, got %T", table, err)
		}
	}
}

// TestSecurity_MaliciousColumnName tests column name injection attempts in
// WHERE building.
func TestSecurity_MaliciousColumnName(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").WhereEq("id; DROP TABLE users--", 1)

	_, _, err := qb.ToSQL()
	if !IsValidation(err) {
		t.Errorf("Expected ValidationError, got %T: %v", err, err)
	}
}

// TestSecurity_MaliciousOperator tests the operator whitelist.
func TestSecurity_MaliciousOperator(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").Where("id", "= 1; DROP TABLE users--", 1)

	_, _, err := qb.ToSQL()
	if err == nil {
		t.Fatal("Expected an error for non-whitelisted operator")
	}
}

// TestSecurity_ValuesAreAlwaysBound tests that malicious values never appear
// in the SQL text.
func TestSecurity_ValuesAreAlwaysBound(t *testing.T) {
	maliciousValues := []interface{}{
		"'; DROP TABLE users--",
		"' OR '1'='1",
		"admin' UNION SELECT * FROM passwords--",
	}

	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").WhereIn("status", maliciousValues)

	sql, args, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	if strings.Contains(sql, "DROP TABLE") || strings.Contains(sql, "UNION") {
		t.Errorf("Malicious value leaked into SQL text: %s", sql)
	}
	if len(args) != len(maliciousValues) {
		t.Errorf("Expected %d bound args, got %d", len(maliciousValues), len(args))
	}
}

// TestSecurity_MaliciousSelectExpression tests suspicious content in select
// expressions.
func TestSecurity_MaliciousSelectExpression(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").Select("COUNT(*); DROP TABLE users--")

	_, _, err := qb.ToSQL()
	if !IsValidation(err) {
		t.Errorf("Expected ValidationError, got %T: %v", err, err)
	}
}

// TestSecurity_MaliciousOrderColumn tests order column validation.
func TestSecurity_MaliciousOrderColumn(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").OrderBy("name; DELETE FROM users", "asc")

	_, _, err := qb.ToSQL()
	if !IsValidation(err) {
		t.Errorf("Expected ValidationError, got %T: %v", err, err)
	}
}

// TestSecurity_InvalidDirectionFallsBackToAsc tests direction whitelisting.
func TestSecurity_InvalidDirectionFallsBackToAsc(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").OrderBy("name", "asc; DROP TABLE users")

	sql, _, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}
	if !strings.HasSuffix(sql, "ORDER BY `name` ASC") {
		t.Errorf("Expected direction fallback to ASC, got: %s", sql)
	}
}
