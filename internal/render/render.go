// Package render produces the final Jekyll document for one post.
//
// The document shape is fixed: front matter (layout, quoted title, quoted
// UTC datetime, permalink, space-joined categories), the body, and — only
// when the post has visible comments — a heading followed by one bolded line
// per comment, with an optional owner reply line underneath.
//
// Comment dates use the DD.MM.YYYY short form. The old blog rendered them
// with the ambient locale; the migrated output fixes the format to the
// Russian convention matching the blog's language.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/mgorelik/blogmig/internal/textenc"
)

const (
	// ownerName is the blog owner, credited as the author of every reply.
	ownerName = "Иван Гришаев"

	commentsHeading = "#### Комментарии из старого блога"

	frontMatterDateLayout = "2006-01-02 15:04:05"
	commentDateLayout     = "02.01.2006"
)

// Comment is one visible comment ready for rendering. Reply is empty when
// the owner never answered; ReplyStamp is meaningless in that case.
type Comment struct {
	Author     string
	Stamp      time.Time
	Text       string
	Reply      string
	ReplyStamp time.Time
}

// Post carries everything Document needs: decoded text, the allocated
// permalink and the already filtered, chronologically ordered comments.
type Post struct {
	Title     string
	Date      time.Time
	Permalink string
	Tags      []string
	Body      string
	Comments  []Comment
}

// Document renders the complete migrated document, line endings normalized,
// ending with a single trailing newline.
func Document(p Post) string {
	var b strings.Builder

	b.WriteString("---\n")
	b.WriteString("layout: post\n")
	fmt.Fprintf(&b, "title:  \"%s\"\n", p.Title)
	fmt.Fprintf(&b, "date:   \"%s\"\n", p.Date.UTC().Format(frontMatterDateLayout))
	fmt.Fprintf(&b, "permalink: %s\n", p.Permalink)
	fmt.Fprintf(&b, "categories: %s\n", strings.Join(p.Tags, " "))
	b.WriteString("---\n\n")

	b.WriteString(p.Body)
	b.WriteString("\n")

	if len(p.Comments) > 0 {
		b.WriteString("\n")
		b.WriteString(commentsHeading)
		b.WriteString("\n")
		for _, c := range p.Comments {
			fmt.Fprintf(&b, "\n**%s %s:** %s\n",
				c.Stamp.UTC().Format(commentDateLayout), c.Author, c.Text)
			if c.Reply != "" {
				fmt.Fprintf(&b, "\n**%s %s:** %s\n",
					c.ReplyStamp.UTC().Format(commentDateLayout), ownerName, c.Reply)
			}
		}
	}

	return textenc.FinalizeNewlines(b.String())
}

// Filename derives the output file name for a post: <YYYY-MM-DD>-<id>.md.
// The post id keeps names unique even when several posts share a day.
func Filename(date time.Time, postID int64) string {
	return fmt.Sprintf("%s-%d.md", date.UTC().Format("2006-01-02"), postID)
}
