package auth

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	userDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/user"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock user repository for testing
type mockUserRepository struct {
	usersByID       map[int64]*userDatamodel.User
	nextID          int64
	skipExistsCheck bool
	returnError     bool
	errorToReturn   error
}

func newMockUserRepository() *mockUserRepository {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.DefaultCost)

	return &mockUserRepository{
		usersByID: map[int64]*userDatamodel.User{
			1: {ID: 1, Username: "rashid", FullName: "Rashid Al Amri", PasswordHash: string(hash), Role: "staff", Status: StatusActive},
			2: {ID: 2, Username: "boss", FullName: "Operations Manager", PasswordHash: string(hash), Role: "Admin", Status: StatusActive},
			3: {ID: 3, Username: "newguy", FullName: "Khalil Mansour", PasswordHash: string(hash), Role: "staff", Status: StatusPending},
			4: {ID: 4, Username: "rejected", FullName: "Omar Saleh", PasswordHash: string(hash), Role: "staff", Status: StatusRejected},
			5: {ID: 5, Username: "oldtimer", FullName: "Tariq Nasser", PasswordHash: string(hash), Role: "staff", Status: ""},
		},
		nextID: 6,
	}
}

func (m *mockUserRepository) GetByIdentifier(identifier string) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	for _, u := range m.usersByID {
		if strings.EqualFold(u.Username, identifier) || strings.EqualFold(u.FullName, identifier) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) GetByID(userID int64) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if u, ok := m.usersByID[userID]; ok {
		return u, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) ExistsByUsername(username string) (bool, error) {
	if m.returnError {
		return false, m.errorToReturn
	}
	if m.skipExistsCheck {
		return false, nil
	}
	for _, u := range m.usersByID {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) Create(u *userDatamodel.User) error {
	if m.returnError {
		return m.errorToReturn
	}
	for _, existing := range m.usersByID {
		if strings.EqualFold(existing.Username, u.Username) {
			return errors.New("UNIQUE constraint failed: users.username")
		}
	}
	u.ID = m.nextID
	m.nextID++
	m.usersByID[u.ID] = u
	return nil
}

func (m *mockUserRepository) UpdatePassword(userID int64, passwordHash string) error {
	if m.returnError {
		return m.errorToReturn
	}
	u, ok := m.usersByID[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepository) UpdateStatus(userID int64, status string) error {
	if m.returnError {
		return m.errorToReturn
	}
	u, ok := m.usersByID[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.Status = status
	return nil
}

func (m *mockUserRepository) setError(err error) {
	m.returnError = true
	m.errorToReturn = err
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		tokenGen = NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)
		service = NewService(mockRepo, tokenGen, slog.Default(), bcrypt.MinCost, 0)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens", func() {
				tokens, err := service.Authenticate(LoginDTO{Identifier: "rashid", Password: "correct_password"})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
			})

			ginkgo.It("should embed the user's name and normalized role in the claims", func() {
				tokens, err := service.Authenticate(LoginDTO{Identifier: "boss", Password: "correct_password"})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := tokenGen.ValidateToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal(int64(2)))
				gomega.Expect(claims.Name).To(gomega.Equal("Operations Manager"))
				gomega.Expect(claims.Role).To(gomega.Equal(string(RoleAdmin)))
			})

			ginkgo.It("should match the identifier against the full name as fallback", func() {
				tokens, err := service.Authenticate(LoginDTO{Identifier: "Rashid Al Amri", Password: "correct_password"})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.Name).To(gomega.Equal("Rashid Al Amri"))
			})

			ginkgo.It("should accept accounts with an empty legacy status", func() {
				tokens, err := service.Authenticate(LoginDTO{Identifier: "oldtimer", Password: "correct_password"})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.Role).To(gomega.Equal(RoleStaff))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should fail with invalid credentials for a wrong password", func() {
				_, err := service.Authenticate(LoginDTO{Identifier: "rashid", Password: "wrong"})

				gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
			})

			ginkgo.It("should fail with invalid credentials for an unknown user", func() {
				_, err := service.Authenticate(LoginDTO{Identifier: "nobody", Password: "correct_password"})

				gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
			})

			ginkgo.It("should collapse repository failures into invalid credentials", func() {
				mockRepo.setError(errors.New("connection refused"))

				_, err := service.Authenticate(LoginDTO{Identifier: "rashid", Password: "correct_password"})

				gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
			})

			ginkgo.It("should reject empty input before touching the repository", func() {
				_, err := service.Authenticate(LoginDTO{})

				gomega.Expect(err).To(gomega.BeAssignableToTypeOf(ValidationError{}))
			})
		})

		ginkgo.Context("when the account is not active", func() {
			ginkgo.It("should report pending accounts only after the password verifies", func() {
				_, err := service.Authenticate(LoginDTO{Identifier: "newguy", Password: "correct_password"})
				gomega.Expect(err).To(gomega.MatchError(ErrAccountPending))

				_, err = service.Authenticate(LoginDTO{Identifier: "newguy", Password: "wrong"})
				gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
			})

			ginkgo.It("should refuse rejected accounts", func() {
				_, err := service.Authenticate(LoginDTO{Identifier: "rejected", Password: "correct_password"})

				gomega.Expect(err).To(gomega.MatchError(ErrAccountRejected))
			})
		})
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("should create a pending account with a temporary password", func() {
			registered, err := service.Register(RegisterDTO{Username: "fresh", FullName: "Fresh Recruit"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(registered.Status).To(gomega.Equal(StatusPending))
			gomega.Expect(len(registered.TempPassword)).To(gomega.Equal(DefaultTempPasswordLength))
		})

		ginkgo.It("should allow logging in with the temporary password once approved", func() {
			registered, err := service.Register(RegisterDTO{Username: "fresh", FullName: "Fresh Recruit"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Approve(registered.ID)).To(gomega.Succeed())

			tokens, err := service.Authenticate(LoginDTO{Identifier: "fresh", Password: registered.TempPassword})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should refuse duplicate usernames regardless of case", func() {
			_, err := service.Register(RegisterDTO{Username: "RASHID", FullName: "Impostor"})

			gomega.Expect(err).To(gomega.MatchError(ErrDuplicateIdentifier))
		})

		ginkgo.It("should map a unique constraint violation from a concurrent signup", func() {
			// Simulates two racing registrations: the pre-check passes for
			// both, but the second insert hits the unique index.
			mockRepo.skipExistsCheck = true

			_, err := service.Register(RegisterDTO{Username: "racer", FullName: "First In"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Register(RegisterDTO{Username: "racer", FullName: "Second In"})
			gomega.Expect(err).To(gomega.MatchError(ErrDuplicateIdentifier))
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should issue a new token pair carrying the same identity", func() {
			tokens, err := service.Authenticate(LoginDTO{Identifier: "boss", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshed.Name).To(gomega.Equal("Operations Manager"))
			gomega.Expect(refreshed.Role).To(gomega.Equal(RoleAdmin))
		})

		ginkgo.It("should reject garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("ChangePassword", func() {
		ginkgo.It("should change the password when the current one verifies", func() {
			err := service.ChangePassword(1, ChangePasswordDTO{CurrentPassword: "correct_password", NewPassword: "new_secret"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Authenticate(LoginDTO{Identifier: "rashid", Password: "new_secret"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should refuse when the current password is wrong", func() {
			err := service.ChangePassword(1, ChangePasswordDTO{CurrentPassword: "wrong", NewPassword: "new_secret"})

			gomega.Expect(err).To(gomega.MatchError(ErrWrongCurrentPassword))
		})

		ginkgo.It("should enforce the minimum length on the new password", func() {
			err := service.ChangePassword(1, ChangePasswordDTO{CurrentPassword: "correct_password", NewPassword: "short"})

			gomega.Expect(err).To(gomega.MatchError(ErrPasswordTooShort))
		})
	})

	ginkgo.Describe("Approve and Reject", func() {
		ginkgo.It("should activate a pending account", func() {
			gomega.Expect(service.Approve(3)).To(gomega.Succeed())
			gomega.Expect(mockRepo.usersByID[3].Status).To(gomega.Equal(StatusActive))
		})

		ginkgo.It("should re-activate a rejected account", func() {
			gomega.Expect(service.Approve(4)).To(gomega.Succeed())
			gomega.Expect(mockRepo.usersByID[4].Status).To(gomega.Equal(StatusActive))
		})

		ginkgo.It("should treat approving an active account as a no-op", func() {
			gomega.Expect(service.Approve(1)).To(gomega.Succeed())
			gomega.Expect(mockRepo.usersByID[1].Status).To(gomega.Equal(StatusActive))
		})

		ginkgo.It("should only reject pending accounts", func() {
			gomega.Expect(service.Reject(3)).To(gomega.Succeed())
			gomega.Expect(mockRepo.usersByID[3].Status).To(gomega.Equal(StatusRejected))

			gomega.Expect(service.Reject(1)).To(gomega.MatchError(ErrInvalidStatusChange))
		})
	})

	ginkgo.Describe("ResetPassword", func() {
		ginkgo.It("should issue a fresh temporary password that works immediately", func() {
			tempPassword, err := service.ResetPassword(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(len(tempPassword)).To(gomega.Equal(DefaultTempPasswordLength))

			_, err = service.Authenticate(LoginDTO{Identifier: "rashid", Password: tempPassword})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.Authenticate(LoginDTO{Identifier: "rashid", Password: "correct_password"})
			gomega.Expect(err).To(gomega.MatchError(ErrInvalidCredentials))
		})

		ginkgo.It("should fail for unknown users", func() {
			_, err := service.ResetPassword(404)

			gomega.Expect(err).To(gomega.MatchError(ErrUserNotFound))
		})
	})
})

var _ = ginkgo.Describe("ParseRole", func() {
	ginkgo.It("should normalize admin spellings case-insensitively", func() {
		gomega.Expect(ParseRole("admin")).To(gomega.Equal(RoleAdmin))
		gomega.Expect(ParseRole("Admin")).To(gomega.Equal(RoleAdmin))
		gomega.Expect(ParseRole("BOSS")).To(gomega.Equal(RoleAdmin))
	})

	ginkgo.It("should fall back to staff for anything else", func() {
		gomega.Expect(ParseRole("staff")).To(gomega.Equal(RoleStaff))
		gomega.Expect(ParseRole("supervisor")).To(gomega.Equal(RoleStaff))
		gomega.Expect(ParseRole("")).To(gomega.Equal(RoleStaff))
	})
})

var _ = ginkgo.Describe("GenerateTempPassword", func() {
	ginkgo.It("should respect the requested length", func() {
		pw, err := GenerateTempPassword(16)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(pw).To(gomega.HaveLen(16))
	})

	ginkgo.It("should enforce the minimum length", func() {
		pw, err := GenerateTempPassword(3)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(pw).To(gomega.HaveLen(MinTempPasswordLength))
	})

	ginkgo.It("should only contain letters and digits", func() {
		pw, err := GenerateTempPassword(32)

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		for _, r := range pw {
			gomega.Expect(strings.ContainsRune(tempPasswordAlphabet, r)).To(gomega.BeTrue())
		}
	})
})
