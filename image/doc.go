// Package image stores a relocatable region in a memory-mapped file.
//
// File layout:
//
//	[0, 64)   header: magic "RLKI", control kind u32, xxhash64 digest u64 of
//	          bytes [64, size), relative pointer to the root table
//	[64, size) a relalloc.Prefix segment holding every structure
//
// The root table {len u64, cap u64, items relative pointer} addresses an
// array of shortstr records. Because every link inside the file is a
// relative pointer, the file can be mapped at any address, copied, or
// reopened without fix-ups.
package image
