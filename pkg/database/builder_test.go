// -----------------------------------------------------------------------------
// Query Builder Tests
// -----------------------------------------------------------------------------
// Bu testler, builder'ın fluent yüzeyinin doğru SQL metni ve doğru sırada
// parametre listesi ürettiğini doğrular. Tüm assertion'lar MySQL grammar
// üzerinden derlenmiş tam SQL string'leri ile yapılır.
// -----------------------------------------------------------------------------

package database

import (
	"strings"
	"testing"
)

// TestToSQL_BasicSelect tests the default SELECT * compilation.
func TestToSQL_BasicSelect(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users")

	sql, args, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := "SELECT * FROM `users`"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
	if len(args) != 0 {
		t.Errorf("Expected 0 args, got %d", len(args))
	}
}

// TestToSQL_SelectColumnsAndAlias tests column selection with aliases.
func TestToSQL_SelectColumnsAndAlias(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").Select("id", "name as full_name")

	sql, _, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := "SELECT `id`, `name` AS `full_name` FROM `users`"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
}

// TestToSQL_ChainedSelectAppends tests that repeated Select calls extend the
// column list instead of replacing it.
func TestToSQL_ChainedSelectAppends(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").Select("id").Select("name", "email")

	sql, _, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := "SELECT `id`, `name`, `email` FROM `users`"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
}

// TestToSQL_MultiTableFrom tests comma-joined FROM with aliases.
func TestToSQL_MultiTableFrom(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.From("users", "u").From("profiles", "p")

	sql, _, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := "SELECT * FROM `users` AS `u`, `profiles` AS `p`"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
}

// TestToSQL_Joins tests the join variants.
func TestToSQL_Joins(t *testing.T) {
	tests := []struct {
		name     string
		build    func(qb *QueryBuilder)
		expected string
	}{
		{
			name: "inner join defaults to equality",
			build: func(qb *QueryBuilder) {
				qb.Table("users").Join("posts", "users.id", "posts.user_id")
			},
			expected: "SELECT * FROM `users` INNER JOIN `posts` ON `users`.`id` = `posts`.`user_id`",
		},
		{
			name: "left join",
			build: func(qb *QueryBuilder) {
				qb.Table("users").LeftJoin("posts", "users.id", "posts.user_id")
			},
			expected: "SELECT * FROM `users` LEFT JOIN `posts` ON `users`.`id` = `posts`.`user_id`",
		},
		{
			name: "right join",
			build: func(qb *QueryBuilder) {
				qb.Table("users").RightJoin("posts", "users.id", "posts.user_id")
			},
			expected: "SELECT * FROM `users` RIGHT JOIN `posts` ON `users`.`id` = `posts`.`user_id`",
		},
		{
			name: "cross join has no condition",
			build: func(qb *QueryBuilder) {
				qb.Table("users").CrossJoin("settings")
			},
			expected: "SELECT * FROM `users` CROSS JOIN `settings`",
		},
		{
			name: "explicit operator",
			build: func(qb *QueryBuilder) {
				qb.Table("orders").JoinOn(LeftJoin, "items", "orders.total", ">=", "items.price")
			},
			expected: "SELECT * FROM `orders` LEFT JOIN `items` ON `orders`.`total` >= `items`.`price`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb := NewBuilder(nil, NewMySQLGrammar())
			tt.build(qb)

			sql, _, err := qb.ToSQL()
			if err != nil {
				t.Fatalf("Failed to compile SQL: %v", err)
			}
			if sql != tt.expected {
				t.Errorf("Expected:\n%s\nGot:\n%s", tt.expected, sql)
			}
		})
	}
}

// TestToSQL_NestedWhereGroups tests parenthesized AND/OR groups.
func TestToSQL_NestedWhereGroups(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").
		WhereEq("status", "active").
		WhereGroup(func(sub *QueryBuilder) {
			sub.Where("age", ">", 18).
				OrWhereGroup(func(inner *QueryBuilder) {
					inner.WhereEq("role", "admin").WhereEq("verified", true)
				})
		})

	sql, args, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := "SELECT * FROM `users` WHERE `status` = ? AND (`age` > ? OR (`role` = ? AND `verified` = ?))"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
	if len(args) != 4 {
		t.Errorf("Expected 4 args, got %d", len(args))
	}
	if args[0] != "active" || args[1] != 18 || args[2] != "admin" || args[3] != true {
		t.Errorf("Args are out of order: %v", args)
	}
}

// TestToSQL_BindingOrderMatchesPlaceholders verifies that the parameter list
// length equals the number of placeholders across WHERE and HAVING for
// arbitrarily nested groups.
func TestToSQL_BindingOrderMatchesPlaceholders(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("orders").
		Join("items", "orders.id", "items.order_id").
		WhereGroup(func(sub *QueryBuilder) {
			sub.WhereBetween("total", 10, 500).
				OrWhereEq("status", "shipped")
		}).
		WhereIn("region", []interface{}{"eu", "us", "apac"}).
		GroupBy("region").
		Having("COUNT(*) > ?", 5).
		OrHaving("SUM(total) > ?", 1000)

	sql, args, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	placeholders := strings.Count(sql, "?")
	if placeholders != len(args) {
		t.Errorf("Placeholder count (%d) does not match args length (%d)\nSQL: %s",
			placeholders, len(args), sql)
	}
}

// TestToSQL_OrderGroupLimitOffset tests the trailing clause rendering.
func TestToSQL_OrderGroupLimitOffset(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").
		OrderBy("name", "desc").
		OrderBy("id", "").
		Limit(10).
		Offset(20)

	sql, _, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := "SELECT * FROM `users` ORDER BY `name` DESC, `id` ASC LIMIT 10 OFFSET 20"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
}

// TestInRandomOrder_LastCallWins tests that random ordering and orderBy are
// mutually exclusive.
func TestInRandomOrder_LastCallWins(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").OrderBy("name", "asc").InRandomOrder()

	sql, _, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}
	if !strings.Contains(sql, "ORDER BY RAND()") {
		t.Errorf("Expected random ordering, got: %s", sql)
	}

	// Ters yön: random'dan sonra OrderBy çağrısı random'ı kapatır
	qb2 := NewBuilder(nil, NewMySQLGrammar())
	qb2.Table("users").InRandomOrder().OrderBy("name", "asc")

	sql2, _, _ := qb2.ToSQL()
	if strings.Contains(sql2, "RAND()") {
		t.Errorf("Expected orderBy to override random mode, got: %s", sql2)
	}
}

// TestWhereBetweenValues_ArityValidation tests the two-bound requirement.
func TestWhereBetweenValues_ArityValidation(t *testing.T) {
	tests := []struct {
		name   string
		bounds []interface{}
	}{
		{"single bound", []interface{}{10}},
		{"three bounds", []interface{}{10, 20, 30}},
		{"no bounds", []interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qb := NewBuilder(nil, NewMySQLGrammar())
			qb.Table("users").WhereBetweenValues("age", tt.bounds)

			_, _, err := qb.ToSQL()
			if err == nil {
				t.Fatal("Expected a validation error, got nil")
			}
			if !IsValidation(err) {
				t.Errorf("Expected ValidationError, got %T: %v", err, err)
			}
		})
	}
}

// TestWhereIn_EmptyListValidation tests that an empty IN list fails fast.
func TestWhereIn_EmptyListValidation(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").WhereIn("status", []interface{}{})

	_, _, err := qb.ToSQL()
	if !IsValidation(err) {
		t.Errorf("Expected ValidationError, got %T: %v", err, err)
	}
}

// TestWhereInQuery_SubqueryCompilation tests IN with a nested SELECT.
func TestWhereInQuery_SubqueryCompilation(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("posts").WhereInQuery("user_id", func(sub *QueryBuilder) {
		sub.Table("users").Select("id").WhereEq("country_id", 7)
	})

	sql, args, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := "SELECT * FROM `posts` WHERE `user_id` IN (SELECT `id` FROM `users` WHERE `country_id` = ?)"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
	if len(args) != 1 || args[0] != 7 {
		t.Errorf("Expected args [7], got %v", args)
	}
}

// TestWhereExists_CorrelatedSubquery tests EXISTS compilation.
func TestWhereExists_CorrelatedSubquery(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").WhereNotExists(func(sub *QueryBuilder) {
		sub.Table("bans").Select("id").WhereEq("active", true)
	})

	sql, _, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := "SELECT * FROM `users` WHERE NOT EXISTS (SELECT `id` FROM `bans` WHERE `active` = ?)"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
}

// TestWhereNull_Compilation tests NULL checks.
func TestWhereNull_Compilation(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").WhereNull("deleted_at").WhereNotNull("email")

	sql, args, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	expected := "SELECT * FROM `users` WHERE `deleted_at` IS NULL AND `email` IS NOT NULL"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
	if len(args) != 0 {
		t.Errorf("NULL checks should not bind parameters, got %v", args)
	}
}

// TestWhereMap_SortedAndConjoined tests map form compiling deterministically.
func TestWhereMap_SortedAndConjoined(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").WhereMap(map[string]interface{}{
		"status": "active",
		"role":   "admin",
	})

	sql, args, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Failed to compile SQL: %v", err)
	}

	// Key'ler alfabetik sıralanır: role önce, status sonra
	expected := "SELECT * FROM `users` WHERE `role` = ? AND `status` = ?"
	if sql != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, sql)
	}
	if args[0] != "admin" || args[1] != "active" {
		t.Errorf("Args are out of order: %v", args)
	}
}

// TestResetConditions_ClearsPredicatesAndError tests the reset semantics used
// by update/delete re-targeting.
func TestResetConditions_ClearsPredicatesAndError(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("users").
		Select("id", "name").
		OrderBy("name", "asc").
		WhereEq("status", "active").
		WhereIn("role", []interface{}{}). // hata biriktirir
		Limit(5).
		Offset(10)

	if qb.Err() == nil {
		t.Fatal("Expected an accumulated error before reset")
	}

	qb.ResetConditions()

	sql, args, err := qb.ToSQL()
	if err != nil {
		t.Fatalf("Reset should clear the accumulated error, got: %v", err)
	}

	expected := "SELECT `id`, `name` FROM `users` ORDER BY `name` ASC"
	if sql != expected {
		t.Errorf("Expected select/order state to survive reset:\n%s\nGot:\n%s", expected, sql)
	}
	if len(args) != 0 {
		t.Errorf("Expected bindings to be cleared, got %v", args)
	}
}

// TestHaving_BindingCountMismatch tests that raw HAVING argument counts are
// validated at compile time.
func TestHaving_BindingCountMismatch(t *testing.T) {
	qb := NewBuilder(nil, NewMySQLGrammar())
	qb.Table("orders").GroupBy("region").Having("COUNT(*) > ? AND SUM(total) > ?", 5)

	_, _, err := qb.ToSQL()
	if err == nil {
		t.Fatal("Expected a binding count error, got nil")
	}
}
