// Package sqlinclude parses SQL files annotated with comment directives
// into a catalog of named statements.
//
// A document is a sequence of statements separated by semicolons. Each
// statement may be preceded by comments:
//
//	-- name: get_loaned_books?
//	-- Returns the list of books loaned to a patron
//	-- param: user_id: &str - user ID
//	SELECT book_title FROM library WHERE loaned_to = :user_id;
//
// The name directive names the following statement and may carry a
// variant selector, a single punctuation token such as "?" or "!" that
// tells a generator what to produce. Param directives declare placeholder
// types. Other comments before the SQL become the statement's docs.
//
// Placeholders are written :name. A placeholder that is the only thing
// inside IN ( ... ) is a list placeholder and expands to several values.
// Placeholder and parameter names are normalized to snake_case.
package sqlinclude
