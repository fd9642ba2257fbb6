package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicore/agenda-api/internal/appointment"
	"github.com/clinicore/agenda-api/internal/db"
	"github.com/clinicore/agenda-api/internal/inventory"
	"github.com/clinicore/agenda-api/internal/payment"
	"github.com/clinicore/agenda-api/internal/schedule"
	"github.com/clinicore/agenda-api/internal/space"
	"github.com/clinicore/agenda-api/internal/user"
	"github.com/clinicore/agenda-api/migrations"
)

// Seeds a development database with a working agenda: staff accounts,
// spaces, two weeks of appointments, payments and inventory.
func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, migrations.FS); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	therapists, err := seedUsers(ctx, pool)
	if err != nil {
		log.Fatalf("seed users: %v", err)
	}
	spaces, err := seedSpaces(ctx, pool)
	if err != nil {
		log.Fatalf("seed spaces: %v", err)
	}
	if err := seedAppointments(ctx, pool, spaces, therapists); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}
	if err := seedInventory(ctx, pool); err != nil {
		log.Fatalf("seed inventory: %v", err)
	}

	log.Println("seed complete")
}

func seedUsers(ctx context.Context, pool *pgxpool.Pool) ([]user.User, error) {
	repo := user.NewPgRepository(pool)

	hash, err := bcrypt.GenerateFromPassword([]byte("cambiame123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	fixed := []user.User{
		{Name: "Administrador", Email: "admin@clinica.local", Role: user.RoleAdmin},
		{Name: "Recepcion", Email: "recepcion@clinica.local", Role: user.RoleReception},
	}
	for _, u := range fixed {
		u.PasswordHash = string(hash)
		u.Active = true
		if _, err := repo.Create(ctx, u); err != nil {
			return nil, err
		}
	}

	var therapists []user.User
	for i := 0; i < 8; i++ {
		u, err := repo.Create(ctx, user.User{
			Name:         gofakeit.Name(),
			Email:        gofakeit.Email(),
			PasswordHash: string(hash),
			Role:         user.RoleTherapist,
			Active:       true,
		})
		if err != nil {
			return nil, err
		}
		therapists = append(therapists, *u)
	}

	log.Printf("seeded %d users", len(fixed)+len(therapists))
	return therapists, nil
}

func seedSpaces(ctx context.Context, pool *pgxpool.Pool) ([]space.Space, error) {
	repo := space.NewPgRepository(pool)

	specs := []space.Space{
		{Name: "Cubiculo 1", Type: "fisico", Available: true, CostPerHour: 35000},
		{Name: "Cubiculo 2", Type: "fisico", Available: true, CostPerHour: 35000},
		{Name: "Cubiculo 3", Type: "fisico", Available: true, CostPerHour: 40000},
		{Name: "Sala grupal", Type: "fisico", Available: true, CostPerHour: 60000},
		{Name: "Sala virtual", Type: "virtual", Available: true, CostPerHour: 30000},
		{Name: "Cubiculo en remodelacion", Type: "fisico", Available: false, CostPerHour: 35000},
	}

	var out []space.Space
	for _, s := range specs {
		created, err := repo.Create(ctx, s)
		if err != nil {
			return nil, err
		}
		out = append(out, *created)
	}

	log.Printf("seeded %d spaces", len(out))
	return out, nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, spaces []space.Space, therapists []user.User) error {
	apptRepo := appointment.NewPgRepository(pool)
	payRepo := payment.NewPgRepository(pool)

	subjects := []string{
		"Terapia individual", "Terapia de pareja", "Evaluacion inicial",
		"Seguimiento", "Terapia infantil", "Orientacion vocacional",
	}
	// whole-hour starts within default business hours
	starts := []string{"07:00", "08:00", "09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00"}

	today := time.Now().Truncate(24 * time.Hour)
	count := 0

	for dayOffset := -7; dayOffset <= 7; dayOffset++ {
		day := today.AddDate(0, 0, dayOffset)

		for _, sp := range spaces {
			if !sp.Available {
				continue
			}
			// pick distinct start hours so seeded data never overlaps
			picked := append([]string{}, starts...)
			gofakeit.ShuffleStrings(picked)
			n := gofakeit.Number(2, 5)

			for _, start := range picked[:n] {
				end := schedule.AddMinutes(start, 60)

				therapist := therapists[gofakeit.Number(0, len(therapists)-1)]
				status := appointment.StatusScheduled
				if dayOffset < 0 {
					status = appointment.StatusCompleted
					if gofakeit.Number(0, 9) == 0 {
						status = appointment.StatusNoShow
					}
				}

				appt, err := apptRepo.Create(ctx, appointment.Appointment{
					Date:          day,
					Start:         start,
					End:           end,
					SpaceID:       sp.ID,
					PatientID:     uuid.New(),
					PatientName:   gofakeit.Name(),
					TherapistID:   therapist.ID,
					TherapistName: therapist.Name,
					Status:        status,
					Modality:      appointment.ModalityInPerson,
					Subject:       subjects[gofakeit.Number(0, len(subjects)-1)],
				})
				if err != nil {
					return err
				}
				count++

				if status == appointment.StatusCompleted {
					payStatus := payment.StatusPaid
					if gofakeit.Number(0, 3) == 0 {
						payStatus = payment.StatusPending
					}
					apptID := appt.ID
					_, err := payRepo.Create(ctx, payment.Payment{
						AppointmentID: &apptID,
						PatientID:     appt.PatientID,
						PatientName:   appt.PatientName,
						AmountCents:   sp.CostPerHour,
						Method:        payment.MethodCash,
						Status:        payStatus,
						Concept:       appt.Subject,
						Date:          day,
					})
					if err != nil {
						return err
					}
				}
			}
		}
	}

	log.Printf("seeded %d appointments", count)
	return nil
}

func seedInventory(ctx context.Context, pool *pgxpool.Pool) error {
	repo := inventory.NewPgRepository(pool)

	items := []inventory.Item{
		{Name: "Bateria WISC-V", Category: "pruebas", PriceCents: 0, Stock: 3, Loanable: true},
		{Name: "Cuaderno de trabajo emocional", Category: "material", PriceCents: 25000, Stock: 40, Loanable: false},
		{Name: "Juego terapeutico de mesa", Category: "material", PriceCents: 0, Stock: 5, Loanable: true},
		{Name: "Libro: habilidades sociales", Category: "libros", PriceCents: 45000, Stock: 12, Loanable: true},
	}

	for _, it := range items {
		created, err := repo.CreateItem(ctx, it)
		if err != nil {
			return err
		}

		if created.Loanable && gofakeit.Bool() {
			if _, err := repo.AdjustStock(ctx, created.ID, -1); err != nil {
				return err
			}
			_, err := repo.CreateLoan(ctx, inventory.Loan{
				ItemID:      created.ID,
				PatientID:   uuid.New(),
				PatientName: gofakeit.Name(),
				Quantity:    1,
				LoanedAt:    time.Now().AddDate(0, 0, -10),
				DueDate:     time.Now().AddDate(0, 0, -3),
			})
			if err != nil {
				return err
			}
		}
	}

	log.Println("inventory seeded")
	return nil
}
