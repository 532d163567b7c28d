// Package rescache turns expensive derived assets (decoded textures,
// compiled shader programs) into reusable, lifetime-managed objects on top
// of the mount-based virtual file system in the vfs subpackage.
//
// Components:
//   - Cache[K, V]: one contract, two interchangeable strategies. Bounded is
//     a strong-reference LRU with a byte budget; WeakRef observes values
//     without owning them and expires entries when the last external owner
//     lets go.
//   - Key: deterministic 64-bit identity of a resource request (logical
//     path plus variant parameters), usable as a map key.
//   - TextureManager / ShaderManager: compute key, check cache, on miss read
//     through the MountTable, hand the bytes to the external decoder or
//     compiler, cache the constructed resource.
//
// Concurrent loads of the same key collapse into one unit of work; failures
// never populate a cache and surface through the Logger and LastError
// rather than forcing every call site to branch on a full error value.
package rescache
