// Package docs registra en swag la especificación OpenAPI de la API (swagger.json).
// Regenerar con: swag init -g cmd/api/main.go -o docs --outputTypes json
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

// FilePath ruta de swagger.json relativa a la raíz del repositorio, la que sirve la UI.
const FilePath = "./docs/swagger.json"

//go:embed swagger.json
var doc string

// SwaggerInfo metadatos de la especificación.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "RepairShop API",
	Description:      "Ventas, inventario y cuentas corrientes del taller.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  doc,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
