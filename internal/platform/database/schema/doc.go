// Copyright (c) 2026 Shopora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names the tables and columns of the Shopora database.

Stores build their SQL from these definitions instead of string literals so
that a renamed column breaks at compile time rather than at query time.
*/
package schema
