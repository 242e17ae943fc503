package appsync

import "todoblog/domain/todo"

// GraphQL documents for the Blog model. The mutation documents keep the names the
// schema's generated operations use.
const (
	blogFields = `id name createdAt updatedAt`

	listBlogsQuery = `query ListBlogs($nextToken: String) {
  listBlogs(nextToken: $nextToken) {
    items { ` + blogFields + ` }
    nextToken
  }
}`

	getBlogQuery = `query GetBlog($id: ID!) {
  getBlog(id: $id) { ` + blogFields + ` }
}`

	createPostMutation = `mutation CreatePost($input: CreateBlogInput!) {
  createBlog(input: $input) { ` + blogFields + ` }
}`

	deleteBlogMutation = `mutation DeleteBlog($input: DeleteBlogInput!) {
  deleteBlog(input: $input) { ` + blogFields + ` }
}`
)

// Operation names used in logs and errors.
const (
	OpListBlogs  = "listBlogs"
	OpGetBlog    = "getBlog"
	OpCreateBlog = "createBlog"
	OpDeleteBlog = "deleteBlog"
)

// JSON response structures.

type listBlogsData struct {
	ListBlogs *struct {
		Items     []*todo.Item `json:"items"`
		NextToken *string      `json:"nextToken"`
	} `json:"listBlogs"`
}

type getBlogData struct {
	GetBlog *todo.Item `json:"getBlog"`
}

type createBlogData struct {
	CreateBlog *todo.Item `json:"createBlog"`
}

type deleteBlogData struct {
	DeleteBlog *todo.Item `json:"deleteBlog"`
}

// createBlogInput mirrors CreateBlogInput; the schema only carries a name.
type createBlogInput struct {
	Name string `json:"name"`
}

type deleteBlogInput struct {
	ID string `json:"id"`
}
