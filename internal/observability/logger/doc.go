// Package logger provee un logger Zap singleton con scoping por contexto.
//
//   - Singleton: una sola instancia global inicializada con Init().
//   - Context Scoping: una operación puede llevar un logger con campos propios
//     (store, op...) sin crear un nuevo core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{Env: cfg.LogFormat(), Level: cfg.Log.Level})
//	defer logger.Sync()
//
// En almacenes y servicios:
//
//	log := logger.From(ctx)
//	log.Debug("alta", logger.Store("usuarios"), logger.ID(id))
package logger
