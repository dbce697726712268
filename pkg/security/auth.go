package security

import (
	"database/sql"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/cjsachs/Management-Inventory-System/internal/repository"
	"github.com/cjsachs/Management-Inventory-System/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var (
	jwtSecret     []byte
	jwtSecretOnce sync.Once
)

var ErrNotAuthorized = errors.New("no IT staff record for this account")

// secret resolves JWT_SECRET lazily so importing this package never aborts
// test binaries that do not touch auth.
func secret() []byte {
	jwtSecretOnce.Do(func() {
		value := os.Getenv("JWT_SECRET")
		if value == "" {
			godotenv.Load()
			value = os.Getenv("JWT_SECRET")
		}
		jwtSecret = []byte(value)
	})
	return jwtSecret
}

// AuthenticateStaff verifies the password and requires a matching it_staff
// row. An unknown email and a wrong password are indistinguishable to the
// caller.
func AuthenticateStaff(email, password string, repo *repository.Repository) (*models.StaffUser, error) {
	var staff models.StaffUser

	query := repo.GoquDBWrapper.
		Select("id", "email", "name", "password_hash", "role", "permissions").
		From("it_staff").
		Where(goqu.Ex{"email": email})

	found, err := query.Executor().ScanStruct(&staff)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotAuthorized
		}
		return nil, err
	}
	if !found {
		return nil, ErrNotAuthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return nil, ErrNotAuthorized
	}

	return &staff, nil
}

func GenerateJWT(userID int, name string, role string) (string, error) {
	claims := jwt.MapClaims{
		"userID":   userID,
		"userName": name,
		"role":     role,
		"exp":      time.Now().Add(time.Hour * 12).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}
