// Command token issues an access token for local testing of the API.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/config"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/jwt"
)

func main() {
	code := flag.String("employee", "", "employee code carried by the token")
	role := flag.String("role", string(employee.RoleStaff), "role claim: manager or staff")
	flag.Parse()

	if *code == "" {
		fmt.Fprintln(os.Stderr, "-employee is required")
		os.Exit(2)
	}
	if r := employee.Role(*role); r != employee.RoleManager && r != employee.RoleStaff {
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).GenerateAccessToken(*code, employee.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error issuing token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires", time.Unix(expiresAt, 0).Format(time.RFC3339))
}
