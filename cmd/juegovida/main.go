// Command juegovida opera sobre los almacenes en memoria del juego de la vida:
// listados, altas de usuario, inicio de sesión y una demostración de colisiones.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dropDatabas3/juegovida/internal/domain/repository"
	"github.com/dropDatabas3/juegovida/internal/domain/types"
	"github.com/dropDatabas3/juegovida/internal/observability/logger"
)

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var (
		cfgPath string
		envFile string
		a       *app
	)

	root := &cobra.Command{
		Use:           "juegovida",
		Short:         "Almacenes en memoria de usuarios, sesiones, simulaciones y mundos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			explicit := cmd.Flags().Changed("env-file")
			if explicit || envFileExists(envFile) {
				if err := loadEnv(envFile, explicit); err != nil {
					return err
				}
			}
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			if a, err = newApp(cmd.Context(), cfg); err != nil {
				return err
			}
			cmd.SetContext(logger.ToContext(cmd.Context(), a.log.With(logger.Op(cmd.CommandPath()))))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil {
				a.close()
			}
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Fichero YAML de configuración (opcional)")
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Fichero .env a cargar antes de la configuración")

	current := func() *app { return a }
	root.AddCommand(newListCmd(current))
	root.AddCommand(newUserCmd(current))
	root.AddCommand(newLoginCmd(current))
	root.AddCommand(newDemoCmd(current))
	return root
}

func newListCmd(current func() *app) *cobra.Command {
	var ids bool
	cmd := &cobra.Command{
		Use:       "list <users|sessions|simulations|worlds>",
		Short:     "Vuelca un almacén",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"users", "sessions", "simulations", "worlds"},
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			ctx := cmd.Context()
			var s string
			switch args[0] {
			case "users":
				s = pick(ids, a.db.UserIDs, a.db.UsersData)(ctx)
			case "sessions":
				s = pick(ids, a.db.SessionIDs, a.db.SessionsData)(ctx)
			case "simulations":
				s = pick(ids, a.db.SimulationIDs, a.db.SimulationsData)(ctx)
			case "worlds":
				s = pick(ids, a.db.WorldIDs, a.db.WorldsData)(ctx)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimPrefix(s, "\n"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&ids, "ids", false, "Solo identificadores")
	return cmd
}

func pick(ids bool, idsFn, dataFn func(context.Context) string) func(context.Context) string {
	if ids {
		return idsFn
	}
	return dataFn
}

func newUserCmd(current func() *app) *cobra.Command {
	var nif, name, surnames, email, plain, role, birth string
	add := &cobra.Command{
		Use:   "add",
		Short: "Da de alta un usuario y muestra el almacén resultante",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			ctx := cmd.Context()
			u, err := buildUser(a, nif, name, surnames, email, plain, role, birth)
			if err != nil {
				return err
			}
			stored, err := a.db.InsertUser(ctx, u)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "alta: %s\n", stored.ID())
			fmt.Fprintln(w, strings.TrimPrefix(a.db.UserIDs(ctx), "\n"))
			return nil
		},
	}
	add.Flags().StringVar(&nif, "nif", "", "NIF")
	add.Flags().StringVar(&name, "name", "", "Nombre")
	add.Flags().StringVar(&surnames, "surnames", "", "Apellidos")
	add.Flags().StringVar(&email, "email", "", "Correo")
	add.Flags().StringVar(&plain, "password", "", "Clave de acceso")
	add.Flags().StringVar(&role, "role", "NORMAL", "ADMINISTRADOR | NORMAL | INVITADO")
	add.Flags().StringVar(&birth, "birth-date", "2000-01-01", "Fecha de nacimiento (AAAA-MM-DD)")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("surnames")

	cmd := &cobra.Command{Use: "user", Short: "Operaciones sobre usuarios"}
	cmd.AddCommand(add)
	return cmd
}

func buildUser(a *app, nif, name, surnames, email, plain, role, birth string) (repository.User, error) {
	n, err := a.rules.Nif(nif)
	if err != nil {
		return repository.User{}, err
	}
	e, err := a.rules.Email(email)
	if err != nil {
		return repository.User{}, err
	}
	pw, err := a.rules.Password(plain)
	if err != nil {
		return repository.User{}, err
	}
	r, err := repository.ParseRole(role)
	if err != nil {
		return repository.User{}, err
	}
	born, err := time.ParseInLocation(repository.DateLayout, birth, time.UTC)
	if err != nil {
		return repository.User{}, fmt.Errorf("%w: birth-date %q", repository.ErrInvalidInput, birth)
	}
	return repository.NewUser(repository.NewUserInput{
		Nif:          n,
		Name:         name,
		Surnames:     surnames,
		Address:      types.DefaultPostalAddress(),
		Email:        e,
		BirthDate:    born,
		RegisteredAt: time.Now().UTC().Truncate(24 * time.Hour),
		Password:     pw,
		Role:         r,
	})
}

func newLoginCmd(current func() *app) *cobra.Command {
	var key, plain string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión con ID, NIF o correo",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			s, err := a.auth.Login(cmd.Context(), key, plain)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sesión: %s\ntoken: %s\n", s.ID(), s.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "ID, NIF o correo del usuario")
	cmd.Flags().StringVar(&plain, "password", "", "Clave de acceso")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newDemoCmd(current func() *app) *cobra.Command {
	var showMetrics bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Da de alta un usuario que colisiona con Admin, inicia sesión y muestra los almacenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			ctx := cmd.Context()
			w := cmd.OutOrStdout()

			twin, err := buildUser(a, "00000000T", "Ana", "Alonso Arias", "ana.alonso@gmail.com", "Miau#0", "NORMAL", "1990-01-01")
			if err != nil {
				return err
			}
			stored, err := a.db.InsertUser(ctx, twin)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "alta %s como %s\n", twin.ID(), stored.ID())

			if _, err := a.db.InsertUser(ctx, stored); err != nil {
				fmt.Fprintf(w, "alta repetida: %v\n", err)
			}

			s, err := a.auth.Login(ctx, "ana.alonso@gmail.com", "Miau#0")
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "sesión %s\n", s.ID())

			fmt.Fprintf(w, "\n# usuarios%s\n", a.db.UsersData(ctx))
			fmt.Fprintf(w, "\n# sesiones%s\n", a.db.SessionsData(ctx))
			fmt.Fprintf(w, "\n# simulaciones%s\n", a.db.SimulationsData(ctx))
			fmt.Fprintf(w, "\n# mundos%s\n", a.db.WorldsData(ctx))

			if err := a.db.ResetAll(ctx); err != nil {
				return err
			}
			fmt.Fprintf(w, "\n# usuarios tras reiniciar%s\n", a.db.UserIDs(ctx))

			if showMetrics {
				return printMetrics(w, a)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "Muestra los contadores al terminar")
	return cmd
}

// printMetrics vuelca los contadores y gauges registrados, una serie por línea.
func printMetrics(w io.Writer, a *app) error {
	families, err := a.reg.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			v := m.GetCounter().GetValue()
			if g := m.GetGauge(); g != nil {
				v = g.GetValue()
			}
			lines = append(lines, fmt.Sprintf("%s{%s} %g", mf.GetName(), strings.Join(labels, ","), v))
		}
	}
	sort.Strings(lines)
	fmt.Fprintf(w, "\n# métricas\n%s\n", strings.Join(lines, "\n"))
	return nil
}
