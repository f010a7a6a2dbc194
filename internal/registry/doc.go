// Package registry manages the ordered set of tracked articles.
//
// The backing table has a single column. Row 0 is a header and is never read or
// removed. Articles keep insertion order. Only digit-only values count as articles;
// anything else in the column (notes, blanks, typos) is ignored by List and RenderText
// but still takes part in the duplicate check on Add.
package registry
