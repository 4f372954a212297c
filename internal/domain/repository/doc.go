// Package repository define las entidades almacenables y el contrato de los DAO.
//
// Las entidades (User, Session, World, Simulation) cumplen Record; cada DAO
// cumple Repository. La implementación en memoria vive en internal/store/memory.
//
// Arquitectura:
//
//	┌─────────────────────────────────────────────────────┐
//	│                 datos.Datos (fachada)               │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	                        ▼
//	┌─────────────────────────────────────────────────────┐
//	│        domain/repository (Repository[T])            │
//	└─────────────────────────────────────────────────────┘
//	                        │
//	                        ▼
//	┌─────────────────────────────────────────────────────┐
//	│  store/memory: index (orden + alias) + collision    │
//	└─────────────────────────────────────────────────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Errores de dominio están en errors.go
package repository
