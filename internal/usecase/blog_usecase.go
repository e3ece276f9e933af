package usecase

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

type BlogPostOutput struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content,omitempty"`
	CoverImage  string     `json:"cover_image"`
	AuthorName  string     `json:"author_name"`
	PublishedAt *time.Time `json:"published_at"`
}

type BlogUsecase struct {
	posts repo.BlogPostRepository
}

func NewBlogUsecase(posts repo.BlogPostRepository) *BlogUsecase {
	return &BlogUsecase{posts: posts}
}

// 一覧は本文を省く
func (u *BlogUsecase) ListPublished(ctx context.Context) ([]BlogPostOutput, error) {
	posts, err := u.posts.ListPublished(ctx)
	if err != nil {
		return []BlogPostOutput{}, backendError(err)
	}

	out := make([]BlogPostOutput, 0, len(posts))
	for _, p := range posts {
		o := toBlogPostOutput(p)
		o.Content = ""
		out = append(out, o)
	}
	return out, nil
}

func (u *BlogUsecase) GetBySlug(ctx context.Context, slug string) (BlogPostOutput, error) {
	if slug == "" {
		return BlogPostOutput{}, NewError(KindValidation, "invalid slug")
	}

	p, err := u.posts.FindPublishedBySlug(ctx, slug)
	if errors.Is(err, repo.ErrNotFound) {
		return BlogPostOutput{}, NewError(KindNotFound, "post not found")
	}
	if err != nil {
		return BlogPostOutput{}, backendError(err)
	}
	return toBlogPostOutput(p), nil
}

func toBlogPostOutput(p model.BlogPost) BlogPostOutput {
	out := BlogPostOutput{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Excerpt:     p.Excerpt,
		Content:     p.Content,
		CoverImage:  p.CoverImage,
		PublishedAt: p.PublishedAt,
	}
	if p.Author != nil {
		out.AuthorName = p.Author.FullName
	}
	return out
}
