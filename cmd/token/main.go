// token emite un JWT de desarrollo firmado con JWT_SECRET para probar la API.
//
// Uso: go run ./cmd/token --role bodeguero --user <uuid>
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/jhoicas/concesionario-api/pkg/config"
	"github.com/jhoicas/concesionario-api/pkg/jwt"
)

func main() {
	role := pflag.StringP("role", "r", jwt.RoleAdmin, "rol: admin, bodeguero o vendedor")
	user := pflag.StringP("user", "u", "", "ID del usuario (vacío = UUID aleatorio)")
	minutes := pflag.IntP("minutes", "m", 0, "vigencia en minutos (0 = JWT_EXPIRATION_MINUTES)")
	pflag.Parse()

	switch *role {
	case jwt.RoleAdmin, jwt.RoleWarehouse, jwt.RoleSeller:
	default:
		fmt.Fprintf(os.Stderr, "rol desconocido: %s\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if *user == "" {
		*user = uuid.New().String()
	}
	if *minutes <= 0 {
		*minutes = cfg.JWT.Expiration
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *user, *role, cfg.JWT.Issuer, *minutes)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
