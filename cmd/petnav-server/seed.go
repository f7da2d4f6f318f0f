package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/petnav/petnav/internal/config"
	"github.com/petnav/petnav/internal/domain/clinic"
	"github.com/petnav/petnav/internal/domain/identity"
	"github.com/petnav/petnav/internal/domain/pet"
	"github.com/petnav/petnav/internal/platform/db"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo data for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			return runSeed(ctx, pool)
		},
	}
}

func runSeed(ctx context.Context, pool *pgxpool.Pool) error {
	users := identity.NewService(identity.NewUserRepoPG(pool))
	pets := pet.NewService(pet.NewRepoPG(pool))
	clinics := clinic.NewService(
		clinic.NewClinicRepoPG(pool),
		clinic.NewVetRepoPG(pool),
		clinic.NewHoursRepoPG(pool),
		clinic.NewExceptionRepoPG(pool),
	)

	admin := &identity.User{Email: "admin@petnav.dev", Role: identity.RoleClinicAdmin, DisplayName: "Demo Admin"}
	if err := users.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	vetUser := &identity.User{Email: "ania.kowalska@petnav.dev", Role: identity.RoleVet, DisplayName: "Ania Kowalska"}
	if err := users.CreateUser(ctx, vetUser); err != nil {
		return fmt.Errorf("seed vet user: %w", err)
	}

	owner := &identity.User{Email: "jan.nowak@petnav.dev", Role: identity.RoleOwner, DisplayName: "Jan Nowak"}
	if err := users.CreateUser(ctx, owner); err != nil {
		return fmt.Errorf("seed owner: %w", err)
	}

	rex := &pet.Pet{Name: "Rex", Species: "dog"}
	if err := pets.CreatePet(ctx, owner.ID, rex); err != nil {
		return fmt.Errorf("seed pet: %w", err)
	}

	downtown := &clinic.Clinic{Name: "Downtown Vet Clinic", City: "Warsaw", Address: "ul. Marszalkowska 1"}
	if err := clinics.CreateClinic(ctx, admin.ID, downtown); err != nil {
		return fmt.Errorf("seed clinic: %w", err)
	}
	riverside := &clinic.Clinic{Name: "Riverside Animal Hospital", City: "Warsaw", Address: "ul. Wybrzeze 12"}
	if err := clinics.CreateClinic(ctx, admin.ID, riverside); err != nil {
		return fmt.Errorf("seed clinic: %w", err)
	}

	// Downtown opens Mon-Fri 09:00-17:00.
	for wd := 0; wd <= 4; wd++ {
		rule := &clinic.HourRule{Weekday: wd, StartTime: "09:00", EndTime: "17:00"}
		if err := clinics.SetClinicRule(ctx, admin.ID, downtown.ID, rule); err != nil {
			return fmt.Errorf("seed clinic hours: %w", err)
		}
	}

	vet := &clinic.Vet{UserID: vetUser.ID, ClinicID: downtown.ID, Title: "lek. wet."}
	if err := clinics.AddVet(ctx, admin.ID, vet); err != nil {
		return fmt.Errorf("seed vet: %w", err)
	}

	// The vet keeps shorter hours on Mon, Wed and Fri.
	for _, wd := range []int{0, 2, 4} {
		rule := &clinic.HourRule{Weekday: wd, StartTime: "10:00", EndTime: "16:00"}
		if err := clinics.SetVetRule(ctx, admin.ID, vet.ID, rule); err != nil {
			return fmt.Errorf("seed vet hours: %w", err)
		}
	}

	fmt.Println("Seeded demo data:")
	fmt.Printf("  admin  %s  %s\n", admin.ID, admin.Email)
	fmt.Printf("  vet    %s  %s at %s\n", vet.ID, vetUser.Email, downtown.Name)
	fmt.Printf("  owner  %s  %s (pet %s)\n", owner.ID, owner.Email, rex.Name)
	fmt.Printf("  clinics %s, %s\n", downtown.ID, riverside.ID)
	return nil
}
