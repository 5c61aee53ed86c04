package impl

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"chatter/internal/domain/entity"
	"chatter/internal/domain/repository"
	"chatter/internal/domain/service"

	"github.com/pkg/errors"
)

// The fakes below are small in-memory stand-ins for the persistence and
// infrastructure interfaces, so the services can be exercised without a
// database or network.

// --- user repository ---

type memoryUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*entity.User

	createErr error
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[int64]*entity.User)}
}

func (r *memoryUserRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user

	return &copied, nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			copied := *user

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *memoryUserRepo) Create(_ context.Context, user *entity.User) error {
	if r.createErr != nil {
		return r.createErr
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.ID] = &copied

	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	copied := *user
	r.users[user.ID] = &copied

	return nil
}

// --- post repository ---

type memoryPostRepo struct {
	mu            sync.Mutex
	nextID        int64
	posts         map[int64]*entity.Post
	comments      []*entity.Comment
	likes         []*entity.Like
	updateImgErrs map[int64]error
}

func newMemoryPostRepo() *memoryPostRepo {
	return &memoryPostRepo{
		posts:         make(map[int64]*entity.Post),
		updateImgErrs: make(map[int64]error),
	}
}

func (r *memoryPostRepo) CreatePost(_ context.Context, post *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	post.ID = r.nextID
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	copied := *post
	r.posts[post.ID] = &copied

	return nil
}

func (r *memoryPostRepo) FindPostByID(_ context.Context, id int64) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	copied := *post

	return &copied, nil
}

func (r *memoryPostRepo) ListPosts(_ context.Context, sorting entity.PostSorting) ([]*entity.PostWithLikes, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	likeCounts := make(map[int64]int64)
	for _, like := range r.likes {
		likeCounts[like.PostID]++
	}

	result := make([]*entity.PostWithLikes, 0, len(r.posts))
	for _, post := range r.posts {
		copied := *post
		result = append(result, &entity.PostWithLikes{Post: &copied, Likes: likeCounts[post.ID]})
	}

	sort.Slice(result, func(i, j int) bool {
		switch sorting {
		case entity.SortOld:
			return result[i].Post.ID < result[j].Post.ID
		case entity.SortMostLikes:
			if result[i].Likes != result[j].Likes {
				return result[i].Likes > result[j].Likes
			}

			return result[i].Post.ID < result[j].Post.ID
		default:
			return result[i].Post.ID > result[j].Post.ID
		}
	})

	return result, nil
}

func (r *memoryPostRepo) UpdatePostImageURL(_ context.Context, postID int64, imageURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.updateImgErrs[postID]; err != nil {
		return err
	}

	post, ok := r.posts[postID]
	if !ok {
		return repository.ErrPostNotFound
	}
	post.ImageURL = &imageURL

	return nil
}

func (r *memoryPostRepo) CreateComment(_ context.Context, comment *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[comment.PostID]; !ok {
		return repository.ErrPostNotFound
	}

	r.nextID++
	comment.ID = r.nextID
	comment.CreatedAt = time.Now()
	copied := *comment
	r.comments = append(r.comments, &copied)

	return nil
}

func (r *memoryPostRepo) ListCommentsByPostID(_ context.Context, postID int64) ([]*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*entity.Comment, 0)
	for _, comment := range r.comments {
		if comment.PostID == postID {
			copied := *comment
			result = append(result, &copied)
		}
	}

	return result, nil
}

func (r *memoryPostRepo) CreateLike(_ context.Context, like *entity.Like) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[like.PostID]; !ok {
		return repository.ErrPostNotFound
	}

	r.nextID++
	like.ID = r.nextID
	like.CreatedAt = time.Now()
	copied := *like
	r.likes = append(r.likes, &copied)

	return nil
}

// --- transaction manager ---

type fakeRepoFactory struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

func (f *fakeRepoFactory) UserRepo() repository.UserRepository { return f.userRepo }
func (f *fakeRepoFactory) PostRepo() repository.PostRepository { return f.postRepo }

// fakeTxManager runs the unit of work directly against the in-memory repos.
type fakeTxManager struct {
	factory *fakeRepoFactory
}

func (tm *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(tm.factory)
}

// --- token service ---

// fakeTokenService issues transparent "purpose:subject" tokens so tests can
// assert on issuance without real signing.
type fakeTokenService struct {
	issueErr   error
	resolveErr error
}

func (s *fakeTokenService) Issue(subject string, purpose service.TokenPurpose) (string, error) {
	if s.issueErr != nil {
		return "", s.issueErr
	}

	return string(purpose) + ":" + subject, nil
}

func (s *fakeTokenService) Resolve(token string, expected service.TokenPurpose) (string, error) {
	if s.resolveErr != nil {
		return "", s.resolveErr
	}

	purpose, subject, ok := strings.Cut(token, ":")
	if !ok {
		return "", service.ErrTokenMalformed
	}
	if purpose != string(expected) {
		return "", service.ErrTokenPurposeMismatch
	}

	return subject, nil
}

func (s *fakeTokenService) TTL(purpose service.TokenPurpose) time.Duration {
	if purpose == service.PurposeConfirmation {
		return 24 * time.Hour
	}

	return time.Hour
}

// --- password hasher ---

type fakeHasher struct {
	hashErr error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}

	return "hashed:" + password, nil
}

func (h *fakeHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

// --- task queue ---

// recordingTaskQueue captures enqueued tasks so a test can run them at a
// chosen moment, mirroring the real queue's after-the-response execution.
type recordingTaskQueue struct {
	mu    sync.Mutex
	names []string
	tasks []service.Task
}

func (q *recordingTaskQueue) Enqueue(name string, task service.Task) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.names = append(q.names, name)
	q.tasks = append(q.tasks, task)
}

func (q *recordingTaskQueue) Close() error { return nil }

// runAll executes every captured task and returns their errors.
func (q *recordingTaskQueue) runAll(ctx context.Context) []error {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	errs := make([]error, 0, len(tasks))
	for _, task := range tasks {
		errs = append(errs, task(ctx))
	}

	return errs
}

// --- mail sender ---

type sentMail struct {
	to      string
	subject string
	body    string
}

type recordingMailSender struct {
	mu      sync.Mutex
	sent    []sentMail
	sendErr error
}

func (s *recordingMailSender) Send(_ context.Context, to, subject, body string) error {
	if s.sendErr != nil {
		return s.sendErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMail{to: to, subject: subject, body: body})

	return nil
}

// --- image generator ---

type fakeImageGenerator struct {
	mu      sync.Mutex
	url     string
	err     error
	prompts []string
}

func (g *fakeImageGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	if g.err != nil {
		return "", g.err
	}
	if g.url == "" {
		return "", errors.New("no image configured")
	}

	return g.url, nil
}
