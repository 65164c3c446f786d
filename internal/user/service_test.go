package user

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/alraedsec/work-management/internal/auth"
	userDatamodel "github.com/alraedsec/work-management/internal/core/datamodel/user"
)

func TestUser(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "User Module Suite")
}

type mockUserRepository struct {
	usersByID map[int64]*userDatamodel.User
	nextID    int64
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		usersByID: map[int64]*userDatamodel.User{
			1: {ID: 1, Username: "boss", FullName: "Operations Manager", Role: "admin", Status: auth.StatusActive},
			2: {ID: 2, Username: "guard1", FullName: "Ahmed Hassan", Role: "staff", Status: auth.StatusActive},
			3: {ID: 3, Username: "newguy", FullName: "Khalil Mansour", Role: "staff", Status: auth.StatusPending},
			4: {ID: 4, Username: "oldtimer", FullName: "Tariq Nasser", Role: "staff", Status: ""},
		},
		nextID: 5,
	}
}

func (m *mockUserRepository) GetByID(userID int64) (*userDatamodel.User, error) {
	if u, ok := m.usersByID[userID]; ok {
		return u, nil
	}
	return nil, auth.ErrUserNotFound
}

func (m *mockUserRepository) GetAll() ([]*userDatamodel.User, error) {
	out := make([]*userDatamodel.User, 0, len(m.usersByID))
	for _, u := range m.usersByID {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepository) GetActive() ([]*userDatamodel.User, error) {
	var out []*userDatamodel.User
	for _, u := range m.usersByID {
		if u.Status == auth.StatusActive || u.Status == "" {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) ExistsByUsername(username string) (bool, error) {
	for _, u := range m.usersByID {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) Create(u *userDatamodel.User) error {
	u.ID = m.nextID
	m.nextID++
	m.usersByID[u.ID] = u
	return nil
}

func (m *mockUserRepository) Delete(userID int64) error {
	delete(m.usersByID, userID)
	return nil
}

var _ = ginkgo.Describe("UserService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		service = NewService(mockRepo, slog.Default(), 4, 12)
	})

	ginkgo.Describe("ListActiveUsers", func() {
		ginkgo.It("should include legacy accounts with an empty status", func() {
			users, err := service.ListActiveUsers()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(users).To(gomega.HaveLen(3))
			for _, u := range users {
				gomega.Expect(u.Status).ToNot(gomega.Equal(auth.StatusPending))
			}
		})
	})

	ginkgo.Describe("CreateUser", func() {
		ginkgo.It("should create an immediately active account with a temp password", func() {
			created, err := service.CreateUser(CreateUserDTO{Username: "guard2", FullName: "Sara Khalid"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.Status).To(gomega.Equal(auth.StatusActive))
			gomega.Expect(created.TempPassword).To(gomega.HaveLen(12))
		})

		ginkgo.It("should normalize legacy role names", func() {
			created, err := service.CreateUser(CreateUserDTO{Username: "boss2", FullName: "Deputy", Role: "Boss"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.Role).To(gomega.Equal(auth.RoleAdmin))
		})

		ginkgo.It("should refuse duplicate usernames", func() {
			_, err := service.CreateUser(CreateUserDTO{Username: "GUARD1", FullName: "Clone"})

			gomega.Expect(err).To(gomega.MatchError(auth.ErrDuplicateIdentifier))
		})

		ginkgo.It("should require both username and full name", func() {
			_, err := service.CreateUser(CreateUserDTO{Username: "x"})

			gomega.Expect(err).To(gomega.BeAssignableToTypeOf(ValidationError{}))
		})
	})

	ginkgo.Describe("DeleteUser", func() {
		ginkgo.It("should remove an existing account", func() {
			gomega.Expect(service.DeleteUser(2)).To(gomega.Succeed())

			_, err := service.GetByID(2)
			gomega.Expect(err).To(gomega.MatchError(auth.ErrUserNotFound))
		})

		ginkgo.It("should report unknown accounts", func() {
			gomega.Expect(service.DeleteUser(404)).To(gomega.MatchError(auth.ErrUserNotFound))
		})
	})
})
